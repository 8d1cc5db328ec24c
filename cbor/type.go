package cbor

// Type represents the kind of the data item
// a Value is positioned at.
type Type uint8

// Data item types. The zero value, Invalid, is
// reported when a Value is at the end of its
// container or sequence.
const (
	Invalid Type = iota
	Integer
	ByteString
	TextString
	Array
	Map
	Tag
	Simple
	Boolean
	Null
	Undefined
	HalfFloat
	Float
	Double
)

var typeNames = [...]string{
	Invalid:    "invalid",
	Integer:    "integer",
	ByteString: "byte string",
	TextString: "text string",
	Array:      "array",
	Map:        "map",
	Tag:        "tag",
	Simple:     "simple",
	Boolean:    "boolean",
	Null:       "null",
	Undefined:  "undefined",
	HalfFloat:  "half-precision float",
	Float:      "float",
	Double:     "double",
}

// String implements the fmt.Stringer interface.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "unknown"
}

// IsContainer returns whether t is an array or a map.
func (t Type) IsContainer() bool { return t == Array || t == Map }

// Major types of the initial byte.
const (
	majorUnsigned byte = iota
	majorNegative
	majorBytes
	majorText
	majorArray
	majorMap
	majorTag
	majorSimple
)

// Additional information values of
// the initial byte with a special meaning.
const (
	aiUint8      byte = 24
	aiUint16     byte = 25
	aiUint32     byte = 26
	aiUint64     byte = 27
	aiIndefinite byte = 31

	simpleFalse     byte = 20
	simpleTrue      byte = 21
	simpleNull      byte = 22
	simpleUndefined byte = 23

	breakByte byte = 0xff
)
