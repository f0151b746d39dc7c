package conv

import (
	"bytes"
	"encoding/json"
	"errors"
	"reflect"
)

var errDestination = errors.New("conv: destination must be a non-nil pointer")

// Convert copies in into the value pointed to by outPtr: directly when
// assignable, otherwise through a JSON round trip.  A nil input leaves the
// destination untouched.
func Convert(in any, outPtr any) error {
	v := reflect.ValueOf(outPtr)
	if outPtr == nil || v.Kind() != reflect.Ptr || v.IsNil() {
		return errDestination
	}
	if in == nil {
		return nil
	}
	if inVal := reflect.ValueOf(in); inVal.Type().AssignableTo(v.Elem().Type()) {
		v.Elem().Set(inVal)
		return nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, outPtr)
}

// ToMap converts an action input (generated struct, map or nil) into an
// argument bag.  Numbers of a re-encoded input arrive as json.Number so
// integers keep their precision.
func ToMap(in any) (map[string]interface{}, error) {
	switch actual := in.(type) {
	case nil:
		return nil, nil
	case map[string]interface{}:
		return actual, nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var result map[string]interface{}
	if err = decoder.Decode(&result); err != nil {
		return nil, err
	}
	return result, nil
}
