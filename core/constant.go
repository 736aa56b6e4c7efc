package core

import (
	"strconv"
)

// Constant is a scalar literal value
type Constant interface {
	isConstant()
	// TypeName is the name of the global that is the type of this constant
	TypeName() string
	String() string
}

type (
	U8     uint8
	U16    uint16
	U32    uint32
	U64    uint64
	S8     int8
	S16    int16
	S32    int32
	S64    int64
	F32    float32
	F64    float64
	Char   rune
	String string
)

func (U8) isConstant()     {}
func (U16) isConstant()    {}
func (U32) isConstant()    {}
func (U64) isConstant()    {}
func (S8) isConstant()     {}
func (S16) isConstant()    {}
func (S32) isConstant()    {}
func (S64) isConstant()    {}
func (F32) isConstant()    {}
func (F64) isConstant()    {}
func (Char) isConstant()   {}
func (String) isConstant() {}

func (U8) TypeName() string     { return "U8" }
func (U16) TypeName() string    { return "U16" }
func (U32) TypeName() string    { return "U32" }
func (U64) TypeName() string    { return "U64" }
func (S8) TypeName() string     { return "S8" }
func (S16) TypeName() string    { return "S16" }
func (S32) TypeName() string    { return "S32" }
func (S64) TypeName() string    { return "S64" }
func (F32) TypeName() string    { return "F32" }
func (F64) TypeName() string    { return "F64" }
func (Char) TypeName() string   { return "Char" }
func (String) TypeName() string { return "String" }

func (c U8) String() string     { return strconv.FormatUint(uint64(c), 10) }
func (c U16) String() string    { return strconv.FormatUint(uint64(c), 10) }
func (c U32) String() string    { return strconv.FormatUint(uint64(c), 10) }
func (c U64) String() string    { return strconv.FormatUint(uint64(c), 10) }
func (c S8) String() string     { return strconv.FormatInt(int64(c), 10) }
func (c S16) String() string    { return strconv.FormatInt(int64(c), 10) }
func (c S32) String() string    { return strconv.FormatInt(int64(c), 10) }
func (c S64) String() string    { return strconv.FormatInt(int64(c), 10) }
func (c F32) String() string    { return strconv.FormatFloat(float64(c), 'g', -1, 32) }
func (c F64) String() string    { return strconv.FormatFloat(float64(c), 'g', -1, 64) }
func (c Char) String() string   { return strconv.QuoteRune(rune(c)) }
func (c String) String() string { return strconv.Quote(string(c)) }

// ScalarTypeNames are the globals that literals can be checked against
var ScalarTypeNames = []string{
	"U8", "U16", "U32", "U64",
	"S8", "S16", "S32", "S64",
	"F32", "F64",
	"Char", "String",
}
