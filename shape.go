package egress

import (
	"fmt"
	"reflect"

	"github.com/zoobzio/sentinel"
)

// Shaping tags on declared response types.
const (
	tagMask   = "egress.mask"
	tagRedact = "egress.redact"
)

func init() {
	sentinel.Tag(tagMask)
	sentinel.Tag(tagRedact)
}

// shapePlan lists the fields of a declared type that are masked or redacted
// after the transform has run.
type shapePlan struct {
	typeName string
	fields   []shapeField
}

// shapeField describes how to shape a single string field.
type shapeField struct {
	index  []int  // reflect.Value.FieldByIndex access path
	name   string // dotted field name for error messages
	value  string // mask type or redaction literal
	redact bool
}

// buildShapePlan scans D's struct tags. It returns nil when D carries no
// shaping tags or is not a struct.
func buildShapePlan[D any]() (*shapePlan, error) {
	rt := reflect.TypeFor[D]()
	if baseType(rt).Kind() != reflect.Struct {
		return nil, nil
	}

	var spec sentinel.Metadata
	if rt.Kind() == reflect.Struct {
		spec = sentinel.Scan[D]()
	} else {
		spec = scanType(baseType(rt))
	}

	plan := &shapePlan{typeName: spec.TypeName}
	if err := buildShapeFields(plan, spec, nil, ""); err != nil {
		return nil, err
	}
	if len(plan.fields) == 0 {
		return nil, nil
	}
	return plan, nil
}

// buildShapeFields walks value-struct fields recursively. Pointer fields are
// not followed: the shaped copy would share them with the original.
func buildShapeFields(plan *shapePlan, spec sentinel.Metadata, parentIndex []int, prefix string) error {
	for _, field := range spec.Fields {
		fullIndex := append(append([]int{}, parentIndex...), field.Index...)
		fullName := field.Name
		if prefix != "" {
			fullName = prefix + "." + field.Name
		}

		if field.Kind == sentinel.KindStruct {
			if err := buildShapeFields(plan, scanType(field.ReflectType), fullIndex, fullName); err != nil {
				return err
			}
			continue
		}

		if field.ReflectType.Kind() != reflect.String {
			continue
		}

		if val, ok := field.Tags[tagMask]; ok {
			if !IsValidMaskType(MaskType(val)) {
				return newConfigError(ErrInvalidTag, fmt.Sprintf("%s.%s (mask %q)", spec.TypeName, fullName, val))
			}
			plan.fields = append(plan.fields, shapeField{index: fullIndex, name: fullName, value: val})
		}
		if val, ok := field.Tags[tagRedact]; ok {
			plan.fields = append(plan.fields, shapeField{index: fullIndex, name: fullName, value: val, redact: true})
		}
	}
	return nil
}

// scanType builds sentinel metadata for a nested struct type by hand when
// sentinel has not seen it.
func scanType(rt reflect.Type) sentinel.Metadata {
	if spec, ok := sentinel.Lookup(rt.String()); ok {
		return spec
	}

	spec := sentinel.Metadata{
		TypeName:    rt.Name(),
		PackageName: rt.PkgPath(),
		Fields:      make([]sentinel.FieldMetadata, 0, rt.NumField()),
	}

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		fm := sentinel.FieldMetadata{
			Name:        sf.Name,
			Type:        sf.Type.String(),
			ReflectType: sf.Type,
			Index:       sf.Index,
			Tags:        parseShapeTags(sf.Tag),
			Kind:        sentinel.KindScalar,
		}
		switch sf.Type.Kind() {
		case reflect.Struct:
			fm.Kind = sentinel.KindStruct
		case reflect.Ptr:
			fm.Kind = sentinel.KindPointer
		}

		spec.Fields = append(spec.Fields, fm)
	}

	return spec
}

// parseShapeTags extracts the shaping tags from a struct tag.
func parseShapeTags(tag reflect.StructTag) map[string]string {
	tags := make(map[string]string)
	for _, name := range []string{tagMask, tagRedact} {
		if val, ok := tag.Lookup(name); ok {
			tags[name] = val
		}
	}
	return tags
}

// apply shapes a copy of v. The original value is never modified. Values that
// are not of the planned struct type are returned as-is.
func (p *shapePlan) apply(v any, maskers map[MaskType]Masker) any {
	rv := reflect.ValueOf(v)
	isPtr := false
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return v
		}
		rv = rv.Elem()
		isPtr = true
	}
	if rv.Kind() != reflect.Struct {
		return v
	}

	cp := reflect.New(rv.Type()).Elem()
	cp.Set(rv)

	for _, f := range p.fields {
		field := cp.FieldByIndex(f.index)
		if !field.CanSet() || field.Kind() != reflect.String {
			continue
		}
		if f.redact {
			field.SetString(f.value)
			continue
		}
		if m, ok := maskers[MaskType(f.value)]; ok {
			field.SetString(m.Mask(field.String()))
		}
	}

	if isPtr {
		return cp.Addr().Interface()
	}
	return cp.Interface()
}
