package normalize

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/atakanbattal/Kademe-KYS-sub003/errors"
)

// rawValidate checks decoded Raw* records. Flex types are validated by their
// underlying scalar so struct tags such as gte/lte apply to them directly.
var rawValidate *validator.Validate

func init() {
	rawValidate = validator.New()
	rawValidate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	rawValidate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		f := v.Interface().(FlexFloat)
		if !f.Valid {
			return nil
		}
		return f.Value
	}, FlexFloat{})
	rawValidate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		t := v.Interface().(FlexTime)
		if !t.Valid {
			return nil
		}
		return t.Time
	}, FlexTime{})
	rawValidate.RegisterCustomTypeFunc(func(v reflect.Value) interface{} {
		b := v.Interface().(FlexBool)
		if !b.Valid {
			return nil
		}
		return b.Value
	}, FlexBool{})
}

// invalidFields is the set of JSON paths that failed validation, e.g. "currentScore"
// or "defects[2].repeatCount"
type invalidFields map[string]struct{}

func (f invalidFields) has(path string) bool {
	_, ok := f[path]
	return ok
}

// validateRaw runs struct validation and returns the failing paths (root type name stripped).
// Any error other than field failures is returned as-is.
func validateRaw(raw interface{}) (invalidFields, []string, error) {
	err := rawValidate.Struct(raw)
	if err == nil {
		return nil, nil, nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, nil, errors.Wrap(err, "validate raw record")
	}
	set := make(invalidFields, len(verrs))
	order := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		path := fe.Namespace()
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		if _, dup := set[path]; dup {
			continue
		}
		set[path] = struct{}{}
		order = append(order, path)
	}
	return set, order, nil
}
