package buffer

import (
	"bytes"
	"encoding"
	"io"
	"reflect"
	"testing"

	"github.com/stretchr/testify/require"
)

type binarySerializer interface {
	BinarySize() int
	io.WriterTo
	io.ReaderFrom
	encoding.BinaryMarshaler
	encoding.BinaryUnmarshaler
}

// RequireSerializerCorrect checks that:
//   - input and its serialized then deserialized copy serialize to the same bytes
//   - WriteTo writes exactly BinarySize bytes and ReadFrom reads exactly as many
//   - MarshalBinary and WriteTo produce the same bytes
//
// input must be a pointer to a struct implementing the five methods above.
// If the type also implements Equal(*T) bool, the deserialized copy is
// compared to input with it.
func RequireSerializerCorrect(t *testing.T, input binarySerializer) {

	data := make([]byte, input.BinarySize())
	buf := NewBuffer(data)

	n, err := input.WriteTo(buf)
	require.NoError(t, err)
	require.Equal(t, input.BinarySize(), int(n), "WriteTo: invalid number of bytes written")

	output := reflect.New(reflect.TypeOf(input).Elem()).Interface().(binarySerializer)

	n, err = output.ReadFrom(NewBuffer(data))
	require.NoError(t, err)
	require.Equal(t, input.BinarySize(), int(n), "ReadFrom: invalid number of bytes read")

	data2, err := input.MarshalBinary()
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, data2), "MarshalBinary and WriteTo disagree")

	output2 := reflect.New(reflect.TypeOf(input).Elem()).Interface().(binarySerializer)
	require.NoError(t, output2.UnmarshalBinary(data2))

	data3, err := output2.MarshalBinary()
	require.NoError(t, err)
	require.True(t, bytes.Equal(data, data3), "UnmarshalBinary then MarshalBinary is not the identity")

	in := reflect.ValueOf(input)
	if eq := in.MethodByName("Equal"); eq.IsValid() && eq.Type().NumIn() == 1 && eq.Type().In(0) == in.Type() && eq.Type().NumOut() == 1 && eq.Type().Out(0).Kind() == reflect.Bool {
		require.True(t, eq.Call([]reflect.Value{reflect.ValueOf(output)})[0].Bool(), "deserialized object differs")
	}
}
