package firestore

import (
	"fmt"

	firestorev1 "google.golang.org/api/firestore/v1"
)

// nullEnumValue is the wire enum carried by an explicit null.
const nullEnumValue = "NULL_VALUE"

// EncodeFields converts a document body into its wire representation.
func EncodeFields(fields map[string]any) (map[string]firestorev1.Value, error) {
	encoded := make(map[string]firestorev1.Value, len(fields))

	for key, value := range fields {
		wireValue, err := EncodeValue(value)
		if err != nil {
			return nil, fmt.Errorf("field '%s': %w", key, err)
		}

		encoded[key] = *wireValue
	}

	return encoded, nil
}

// EncodeValue converts a Go value into its wire representation. Scalar
// variants are listed in ForceSendFields so zero values ("", 0, false)
// survive JSON marshalling and decode back to the same type.
func EncodeValue(value any) (*firestorev1.Value, error) {
	switch typed := value.(type) {
	case nil:
		return &firestorev1.Value{NullValue: nullEnumValue, ForceSendFields: []string{"NullValue"}}, nil
	case string:
		return &firestorev1.Value{StringValue: typed, ForceSendFields: []string{"StringValue"}}, nil
	case bool:
		return &firestorev1.Value{BooleanValue: typed, ForceSendFields: []string{"BooleanValue"}}, nil
	case int:
		return encodeInteger(int64(typed)), nil
	case int32:
		return encodeInteger(int64(typed)), nil
	case int64:
		return encodeInteger(typed), nil
	case uint32:
		return encodeInteger(int64(typed)), nil
	case float32:
		return encodeDouble(float64(typed)), nil
	case float64:
		return encodeDouble(typed), nil
	case []string:
		elements := make([]any, len(typed))
		for index, element := range typed {
			elements[index] = element
		}

		return EncodeValue(elements)
	case []any:
		values := make([]*firestorev1.Value, 0, len(typed))

		for index, element := range typed {
			wireValue, err := EncodeValue(element)
			if err != nil {
				return nil, fmt.Errorf("element %d: %w", index, err)
			}

			values = append(values, wireValue)
		}

		return &firestorev1.Value{ArrayValue: &firestorev1.ArrayValue{Values: values}}, nil
	case map[string]string:
		elements := make(map[string]any, len(typed))
		for key, element := range typed {
			elements[key] = element
		}

		return EncodeValue(elements)
	case map[string]any:
		fields, err := EncodeFields(typed)
		if err != nil {
			return nil, err
		}

		return &firestorev1.Value{MapValue: &firestorev1.MapValue{Fields: fields}}, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedValue, value)
	}
}

// DecodeFields converts wire fields back into a document body. Integers come
// back as int64, arrays as []any and nested documents as map[string]any.
func DecodeFields(fields map[string]firestorev1.Value) map[string]any {
	decoded := make(map[string]any, len(fields))

	for key, value := range fields {
		decoded[key] = DecodeValue(&value)
	}

	return decoded
}

// DecodeValue converts a wire value back into its Go form. A zero scalar
// carries no discriminator after JSON unmarshalling, so the ForceSendFields
// hints written by EncodeValue break the tie; a zero scalar from a remote
// document decodes as nil.
func DecodeValue(value *firestorev1.Value) any {
	switch {
	case value == nil:
		return nil
	case value.MapValue != nil:
		return DecodeFields(value.MapValue.Fields)
	case value.ArrayValue != nil:
		elements := make([]any, 0, len(value.ArrayValue.Values))
		for _, element := range value.ArrayValue.Values {
			elements = append(elements, DecodeValue(element))
		}

		return elements
	case value.NullValue != "":
		return nil
	case value.StringValue != "" || forcesField(value, "StringValue"):
		return value.StringValue
	case value.IntegerValue != 0 || forcesField(value, "IntegerValue"):
		return value.IntegerValue
	case value.DoubleValue != 0 || forcesField(value, "DoubleValue"):
		return value.DoubleValue
	case value.BooleanValue || forcesField(value, "BooleanValue"):
		return value.BooleanValue
	case value.TimestampValue != "":
		return value.TimestampValue
	case value.ReferenceValue != "":
		return value.ReferenceValue
	default:
		return nil
	}
}

// encodeInteger builds an integer wire value with its presence hint.
func encodeInteger(value int64) *firestorev1.Value {
	return &firestorev1.Value{IntegerValue: value, ForceSendFields: []string{"IntegerValue"}}
}

// encodeDouble builds a double wire value with its presence hint.
func encodeDouble(value float64) *firestorev1.Value {
	return &firestorev1.Value{DoubleValue: value, ForceSendFields: []string{"DoubleValue"}}
}

// forcesField reports whether EncodeValue marked the given variant as present.
func forcesField(value *firestorev1.Value, field string) bool {
	for _, forced := range value.ForceSendFields {
		if forced == field {
			return true
		}
	}

	return false
}
