package cart

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"furniture-store/core/apperror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode(t *testing.T) {
	c := New("bob@store.test", Promotion{})
	require.NoError(t, c.Add(oakChair(t), 3))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, c))
	assert.Equal(t, "user_email,item_type,item_name,quantity,price\nbob@store.test,Chair,Oak Chair,3,120.00\n", buf.String())
}

func TestEncodeDecode_PreservesQuantities(t *testing.T) {
	c := New("bob@store.test", Promotion{})
	require.NoError(t, c.Add(oakChair(t), 3))
	require.NoError(t, c.Add(cornerSofa(t), 1))

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, c))
	rows, err := Decode(&buf)
	require.NoError(t, err)

	want := map[string]int{}
	for _, l := range c.Lines() {
		want[l.Item.Key()] = l.Quantity
	}
	got := map[string]int{}
	for _, r := range rows {
		got[r.Key()] = r.Quantity
		assert.Equal(t, "bob@store.test", r.Email)
	}
	assert.Equal(t, want, got)
}

func TestDecode_Errors(t *testing.T) {
	tests := map[string]string{
		"empty":        "",
		"wrong header": "email,type,name,quantity,price\n",
		"bad quantity": "user_email,item_type,item_name,quantity,price\nbob@store.test,Chair,Oak Chair,zero,120\n",
		"bad kind":     "user_email,item_type,item_name,quantity,price\nbob@store.test,Lamp,Desk,1,20\n",
		"short row":    "user_email,item_type,item_name,quantity,price\nbob@store.test,Chair\n",
	}
	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(input))
			assert.True(t, errors.Is(err, apperror.ErrValidation), "got %v", err)
		})
	}
}
