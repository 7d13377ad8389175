// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package txscript

// These constants are the values of the opcodes used by the standard
// scripts this package builds and recognizes.
const (
	Op0             = 0x00 // 0
	OpData1         = 0x01 // 1
	OpData32        = 0x20 // 32
	OpData33        = 0x21 // 33
	OpData65        = 0x41 // 65
	OpData75        = 0x4b // 75
	OpPushData1     = 0x4c // 76
	OpPushData2     = 0x4d // 77
	OpPushData4     = 0x4e // 78
	Op1Negate       = 0x4f // 79
	OpTrue          = 0x51 // 81 - AKA Op1
	Op16            = 0x60 // 96
	OpEqual         = 0x87 // 135
	OpBlake2b       = 0xaa // 170
	OpCheckSigECDSA = 0xab // 171
	OpCheckSig      = 0xac // 172
)

// Op1 is the same value as OpTrue.
const Op1 = OpTrue
