package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metrolabs/uncertain"
)

func TestParse(t *testing.T) {
	t.Run("complete document", func(t *testing.T) {
		doc, err := Parse([]byte(`{
			"values": {
				"a": {"nominal": 10, "sigma_low": 1, "sigma_up": 1, "distribution": "normal"},
				"b": {"nominal": 5, "sigma_low": 0.2, "sigma_up": 0.4}
			},
			"expr": {"op": "div", "operands": [{"ref": "a"}, {"ref": "b"}]}
		}`))
		require.NoError(t, err)
		require.Len(t, doc.Values, 2)
		require.NotNil(t, doc.Expr)
		assert.Equal(t, "div", doc.Expr.Op)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		_, err := Parse([]byte(`{"values": `))
		require.ErrorIs(t, err, ErrMalformedDocument)
	})
}

func TestValueRoundTrip(t *testing.T) {
	t.Run("asymmetric", func(t *testing.T) {
		v, err := uncertain.New(1.5, 0.1, 0.3)
		require.NoError(t, err)

		doc := EncodeValue(v)
		assert.Equal(t, 1.5, doc.Nominal)
		assert.Equal(t, 0.1, doc.SigmaLow)
		assert.Equal(t, 0.3, doc.SigmaUp)
		assert.Equal(t, "asym-normal", doc.Distribution)
		assert.Nil(t, doc.Limits)

		back, err := DecodeValue(doc)
		require.NoError(t, err)
		assert.Equal(t, v.Nominal(), back.Nominal())
		assert.Equal(t, v.SigmaLow(), back.SigmaLow())
		assert.Equal(t, v.SigmaUp(), back.SigmaUp())
		assert.Equal(t, v.Dist(), back.Dist())
	})

	t.Run("truncated carries its limits", func(t *testing.T) {
		base, err := uncertain.NewNormal(1, 0.5)
		require.NoError(t, err)
		v, err := base.WithLimits(0, 2)
		require.NoError(t, err)

		doc := EncodeValue(v)
		require.NotNil(t, doc.Limits)
		assert.Equal(t, [2]float64{0, 2}, *doc.Limits)

		back, err := DecodeValue(doc)
		require.NoError(t, err)
		lo, hi := back.Limits()
		assert.Equal(t, 0.0, lo)
		assert.Equal(t, 2.0, hi)
	})

	t.Run("normal rejects mismatched sigmas", func(t *testing.T) {
		_, err := DecodeValue(ValueDoc{Nominal: 5, SigmaLow: 2, SigmaUp: 0, Distribution: "normal"})
		require.ErrorIs(t, err, ErrMalformedDocument)

		v, err := DecodeValue(ValueDoc{Nominal: 5, SigmaLow: 2, SigmaUp: 2, Distribution: "normal"})
		require.NoError(t, err)
		assert.Equal(t, 2.0, v.SigmaLow())
		assert.Equal(t, 2.0, v.SigmaUp())
	})

	t.Run("invalid parameters surface", func(t *testing.T) {
		_, err := DecodeValue(ValueDoc{Nominal: 1, SigmaLow: -1})
		require.ErrorIs(t, err, uncertain.ErrInvalidParameter)

		_, err = DecodeValue(ValueDoc{Nominal: 1, Distribution: "bogus"})
		require.ErrorIs(t, err, uncertain.ErrInvalidParameter)
	})
}

func TestBuild(t *testing.T) {
	t.Run("references share one value", func(t *testing.T) {
		doc, err := Parse([]byte(`{
			"values": {"x": {"nominal": 10, "sigma_low": 1, "sigma_up": 1}},
			"expr": {"op": "sub", "operands": [{"ref": "x"}, {"ref": "x"}]}
		}`))
		require.NoError(t, err)

		expr, err := doc.Build()
		require.NoError(t, err)

		res, err := uncertain.Evaluate(expr, uncertain.WithTrials(1000), uncertain.WithSeed(1))
		require.NoError(t, err)
		assert.Zero(t, res.Mean)
		assert.Zero(t, res.LowerBound)
		assert.Zero(t, res.UpperBound)
	})

	t.Run("decoding twice reproduces the run", func(t *testing.T) {
		raw := []byte(`{
			"values": {
				"a": {"nominal": 10, "sigma_low": 1, "sigma_up": 2},
				"b": {"nominal": 5, "sigma_low": 0.5, "sigma_up": 0.5, "distribution": "normal"}
			},
			"expr": {"op": "div", "operands": [{"ref": "a"}, {"ref": "b"}]}
		}`)

		run := func() uncertain.Result {
			doc, err := Parse(raw)
			require.NoError(t, err)
			expr, err := doc.Build()
			require.NoError(t, err)
			res, err := uncertain.Evaluate(expr, uncertain.WithSeed(42), uncertain.WithTrials(10000))
			require.NoError(t, err)
			return res
		}
		require.Equal(t, run(), run())
	})

	t.Run("constants and functions", func(t *testing.T) {
		doc, err := Parse([]byte(`{
			"values": {},
			"expr": {"op": "sqrt", "operands": [
				{"op": "mul", "operands": [{"const": 2}, {"const": 8}]}
			]}
		}`))
		require.NoError(t, err)

		expr, err := doc.Build()
		require.NoError(t, err)

		res, err := uncertain.Evaluate(expr, uncertain.WithTrials(1000), uncertain.WithSeed(1))
		require.NoError(t, err)
		assert.Equal(t, 4.0, res.Mean)
	})

	t.Run("missing expr", func(t *testing.T) {
		doc := &Document{Values: map[string]ValueDoc{}}
		_, err := doc.Build()
		require.ErrorIs(t, err, ErrMalformedDocument)
	})

	t.Run("unknown reference", func(t *testing.T) {
		doc, err := Parse([]byte(`{"values": {}, "expr": {"ref": "ghost"}}`))
		require.NoError(t, err)
		_, err = doc.Build()
		require.ErrorIs(t, err, ErrMalformedDocument)
	})

	t.Run("unknown operator", func(t *testing.T) {
		doc, err := Parse([]byte(`{"values": {}, "expr": {"op": "mod", "operands": [{"const": 1}, {"const": 2}]}}`))
		require.NoError(t, err)
		_, err = doc.Build()
		require.ErrorIs(t, err, ErrMalformedDocument)
	})

	t.Run("wrong operand count", func(t *testing.T) {
		doc, err := Parse([]byte(`{"values": {}, "expr": {"op": "add", "operands": [{"const": 1}]}}`))
		require.NoError(t, err)
		_, err = doc.Build()
		require.ErrorIs(t, err, ErrMalformedDocument)

		doc, err = Parse([]byte(`{"values": {}, "expr": {"op": "neg", "operands": [{"const": 1}, {"const": 2}]}}`))
		require.NoError(t, err)
		_, err = doc.Build()
		require.ErrorIs(t, err, ErrMalformedDocument)
	})

	t.Run("empty node", func(t *testing.T) {
		doc, err := Parse([]byte(`{"values": {}, "expr": {}}`))
		require.NoError(t, err)
		_, err = doc.Build()
		require.ErrorIs(t, err, ErrMalformedDocument)
	})
}

func TestMarshal(t *testing.T) {
	out, err := Marshal(ValueDoc{Nominal: 1, SigmaLow: 0.1, SigmaUp: 0.2})
	require.NoError(t, err)
	assert.Contains(t, string(out), `"nominal":1`)

	doc, err := Parse([]byte(`{"values": {"v": {"nominal":1,"sigma_low":0.1,"sigma_up":0.2}}, "expr": {"ref": "v"}}`))
	require.NoError(t, err)
	assert.Equal(t, 0.1, doc.Values["v"].SigmaLow)
}
