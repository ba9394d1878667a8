package buffer

import (
	"bufio"
	"bytes"
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuffer(t *testing.T) {

	t.Run("Uint/Buffer", func(t *testing.T) {
		buf := NewBufferSize(8 + 1 + 1)

		_, err := WriteAsUint64(buf, 1<<40+7)
		require.NoError(t, err)
		_, err = WriteAsUint8(buf, 255)
		require.NoError(t, err)
		_, err = WriteBool(buf, true)
		require.NoError(t, err)

		_, err = WriteUint8(buf, 0)
		require.Error(t, err)

		r := NewBuffer(buf.Bytes())

		var u int
		var b uint8
		var f bool
		_, err = ReadAsUint64(r, &u)
		require.NoError(t, err)
		_, err = ReadUint8(r, &b)
		require.NoError(t, err)
		_, err = ReadBool(r, &f)
		require.NoError(t, err)

		require.Equal(t, 1<<40+7, u)
		require.Equal(t, uint8(255), b)
		require.True(t, f)
	})

	t.Run("BigInt/Bufio", func(t *testing.T) {

		x, ok := new(big.Int).SetString("123456789012345678901234567890123456789012345678901234567890", 10)
		require.True(t, ok)

		data := new(bytes.Buffer)
		w := bufio.NewWriterSize(data, 16)

		n, err := WriteBigInt(w, x)
		require.NoError(t, err)
		require.NoError(t, w.Flush())
		require.Equal(t, BigIntBinarySize(x), int(n))

		y := new(big.Int)
		n, err = ReadBigInt(bufio.NewReader(data), y)
		require.NoError(t, err)
		require.Equal(t, BigIntBinarySize(x), int(n))
		require.Zero(t, x.Cmp(y))
	})

	t.Run("BigInt/Negative", func(t *testing.T) {
		_, err := WriteBigInt(NewBufferSize(64), big.NewInt(-1))
		require.Error(t, err)
	})
}
