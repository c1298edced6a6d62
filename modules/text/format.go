package text

import (
	"fmt"
	"strconv"

	"github.com/zclconf/go-cty/cty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

// Format renders v the way program output shows it. Whole numbers print
// without a fraction, other numbers use the shortest float64 form, and
// values that are not primitives are rendered as JSON.
func Format(v cty.Value) (string, error) {
	if v.Type() == cty.NilType {
		return "", fmt.Errorf("cannot format a missing value")
	}
	if !v.IsKnown() {
		return "", fmt.Errorf("cannot format an unknown %s", v.Type().FriendlyName())
	}
	if v.IsNull() {
		return "null", nil
	}
	switch {
	case v.Type().Equals(cty.String):
		return v.AsString(), nil
	case v.Type().Equals(cty.Bool):
		return strconv.FormatBool(v.True()), nil
	case v.Type().Equals(cty.Number):
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int(nil)
			return i.String(), nil
		}
		f, _ := bf.Float64()
		return strconv.FormatFloat(f, 'f', -1, 64), nil
	}
	b, err := ctyjson.Marshal(v, v.Type())
	if err != nil {
		return "", err
	}
	return string(b), nil
}
