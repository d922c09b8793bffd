package script

import (
	"reflect"
	"strings"
	"unicode"
)

// hiddenMethods are host-side helpers programs have no business calling.
var hiddenMethods = map[string]bool{
	"Object":      true,
	"Vec":         true,
	"Snapshot":    true,
	"WorldMatrix": true,
	"LocalMatrix": true,
	"HSL":         true,
	"Pixel":       true,
	"SetTarget":   true,
	"Target":      true,
	"Kind":        true,
	"Parent":      true,
}

// fieldMapper exposes Go fields and methods under their lowerCamel names,
// so a *quarkgl.Mesh reads like a three.js mesh (mesh.position.x, mesh.rotateY).
type fieldMapper struct{}

func (fieldMapper) FieldName(_ reflect.Type, f reflect.StructField) string {
	if tag, ok := f.Tag.Lookup("js"); ok {
		if tag == "-" {
			return ""
		}
		return tag
	}
	if f.Anonymous {
		return ""
	}
	return uncapitalize(f.Name)
}

func (fieldMapper) MethodName(_ reflect.Type, m reflect.Method) string {
	if hiddenMethods[m.Name] {
		return ""
	}
	return uncapitalize(m.Name)
}

// uncapitalize lowers the leading run of capitals: "X" -> "x", "HSL" -> "hsl",
// "UserData" -> "userData".
func uncapitalize(s string) string {
	r := []rune(s)
	i := 0
	for i < len(r) && unicode.IsUpper(r[i]) {
		i++
	}
	switch {
	case i == 0:
		return s
	case i == 1 || i == len(r):
		return strings.ToLower(string(r[:i])) + string(r[i:])
	default:
		return strings.ToLower(string(r[:i-1])) + string(r[i-1:])
	}
}
