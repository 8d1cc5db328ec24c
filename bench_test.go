package cborjson

import (
	"bytes"
	"encoding/json"
	"reflect"
	"testing"

	gocbor "github.com/fxamacker/cbor/v2"
	jsoniter "github.com/json-iterator/go"
	segmentj "github.com/segmentio/encoding/json"

	"github.com/wI2L/cborjson/cbor"
)

var jsoniterStd = jsoniter.ConfigCompatibleWithStandardLibrary

type simplePayload struct {
	St   int    `json:"st"`
	Sid  int    `json:"sid"`
	Tt   string `json:"tt"`
	Gr   int    `json:"gr"`
	UUID string `json:"uuid"`
	IP   string `json:"ip"`
	Ua   string `json:"ua"`
	Tz   int    `json:"tz"`
	V    bool   `json:"v"`
}

type complexPayload struct {
	Persons []person          `json:"persons"`
	Tags    map[string]uint64 `json:"tags"`
	Blob    []byte            `json:"blob"`
	Ratio   float64           `json:"ratio"`
}

type person struct {
	Name    string   `json:"name"`
	Age     int      `json:"age"`
	Emails  []string `json:"emails"`
	Balance float64  `json:"balance"`
	Active  bool     `json:"active"`
	Parent  *person  `json:"parent"`
}

func newSimplePayload() *simplePayload {
	return &simplePayload{
		St:   1,
		Sid:  2,
		Tt:   "TestString",
		Gr:   4,
		UUID: "8f9a65eb-4807-4d57-b6e0-bda5d62f1429",
		IP:   "127.0.0.1",
		Ua:   "Mozilla",
		Tz:   8,
		V:    true,
	}
}

func newComplexPayload() *complexPayload {
	p := &complexPayload{
		Tags:  make(map[string]uint64),
		Blob:  bytes.Repeat([]byte{0xde, 0xad, 0xbe, 0xef}, 64),
		Ratio: 0.618033988749895,
	}
	for i := 0; i < 32; i++ {
		p.Persons = append(p.Persons, person{
			Name:    "Loreum Ipsum",
			Age:     20 + i,
			Emails:  []string{"loreum@ipsum.com", "dolor@sit.amet"},
			Balance: 1234.56 * float64(i),
			Active:  i%2 == 0,
			Parent:  &person{Name: "Dolor", Age: 60},
		})
		p.Tags[string(rune('a'+i%26))+"-tag"] = uint64(i) << 40
	}
	return p
}

// benchDecMode decodes CBOR maps to values that
// the JSON encoders of the comparison can handle.
var benchDecMode, _ = gocbor.DecOptions{
	DefaultMapType: reflect.TypeOf(map[string]interface{}(nil)),
}.DecMode()

func BenchmarkSimplePayload(b *testing.B) {
	benchConvert(b, newSimplePayload())
}

func BenchmarkComplexPayload(b *testing.B) {
	benchConvert(b, newComplexPayload())
}

// benchConvert compares the direct conversion of the
// CBOR encoding of v with a decoding to an interface
// value followed by an encoding with popular JSON
// encoders.
func benchConvert(b *testing.B, v interface{}) {
	data, err := gocbor.Marshal(v)
	if err != nil {
		b.Fatal(err)
	}
	twoSteps := func(marshal func(interface{}) ([]byte, error)) func(b *testing.B) {
		return func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				var x interface{}
				if err := benchDecMode.Unmarshal(data, &x); err != nil {
					b.Fatal(err)
				}
				bts, err := marshal(x)
				if err != nil {
					b.Fatal(err)
				}
				b.SetBytes(int64(len(bts)))
			}
		}
	}
	b.Run("standard", twoSteps(json.Marshal))
	b.Run("jsoniter", twoSteps(jsoniterStd.Marshal))
	b.Run("segmentj", twoSteps(segmentj.Marshal))
	b.Run("cborjson", func(b *testing.B) {
		var buf bytes.Buffer
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			it, err := cbor.Parse(data)
			if err != nil {
				b.Fatal(err)
			}
			if err := Convert(&buf, it, StringifyKeys()); err != nil {
				b.Fatal(err)
			}
			b.SetBytes(int64(buf.Len()))
			buf.Reset()
		}
	})
	b.Run("cborjson-marshal", func(b *testing.B) {
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			bts, err := Marshal(data, StringifyKeys())
			if err != nil {
				b.Fatal(err)
			}
			b.SetBytes(int64(len(bts)))
		}
	})
}

func BenchmarkStringEscaping(b *testing.B) {
	s := "<ŁØŘ€M ƗƤŞỮM ĐØŁØŘ ŞƗŦ ΔM€Ŧ>"
	data := text(s)

	b.Run("Full",
		benchEscaping(data, EscapeHTML()))
	b.Run("Default",
		benchEscaping(data))
	b.Run("NoUTF8Coercion",
		benchEscaping(data, NoUTF8Coercion()))
	b.Run("NoStringEscaping",
		benchEscaping(data, NoStringEscaping()))
}

func benchEscaping(data []byte, opts ...Option) func(b *testing.B) {
	var buf bytes.Buffer
	return func(b *testing.B) {
		b.ResetTimer()
		b.ReportAllocs()
		for i := 0; i < b.N; i++ {
			it, err := cbor.Parse(data)
			if err != nil {
				b.Fatal(err)
			}
			if err := Convert(&buf, it, opts...); err != nil {
				b.Fatal(err)
			}
			b.SetBytes(int64(buf.Len()))
			buf.Reset()
		}
	}
}

func BenchmarkByteString(b *testing.B) {
	for _, n := range []int{16, 1024, 1 << 16} {
		src := bytes.Repeat([]byte{0xa5}, n)
		data := append(head(2, uint64(n)), src...)

		b.Run(sizeName(n), func(b *testing.B) {
			b.ReportAllocs()
			dst := make([]byte, 0, 2*n)
			for i := 0; i < b.N; i++ {
				bts, err := Append(dst[:0], data)
				if err != nil {
					b.Fatal(err)
				}
				b.SetBytes(int64(len(bts)))
			}
		})
	}
}

func sizeName(n int) string {
	switch {
	case n >= 1<<10:
		return string(appendInteger(nil, uint64(n>>10), false)) + "KiB"
	default:
		return string(appendInteger(nil, uint64(n), false)) + "B"
	}
}
