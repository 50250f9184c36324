package chord

import (
	"fmt"
	"testing"

	"github.com/jsphweid/theorytab/constants"
	"github.com/jsphweid/theorytab/model"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func str(s string) *string {
	return &s
}

func legacyChord() model.LegacyChord {
	return model.LegacyChord{
		SD:            str("1"),
		Sus:           str("sus4"),
		Borrowed:      str("6"),
		Emb:           []string{"add9", "no5"},
		IsRest:        str("0"),
		StartBeatAbs:  str("1.0"),
		ChordDuration: str("4.0"),
	}
}

func TestMapsSuspendedBorrowedChord(t *testing.T) {
	res, err := Map(legacyChord())
	require.NoError(t, err)

	// borrowed 6 clamps to 1, which is lydian
	assert.Equal(t, model.Chord{
		Root:             1,
		Beat:             1.0,
		Duration:         4.0,
		Type:             5,
		Inversion:        0,
		Applied:          0,
		Adds:             []int{9},
		Omits:            []int{5},
		Alterations:      []string{},
		Suspensions:      []int{4},
		Pedal:            nil,
		Alternate:        nil,
		Borrowed:         "lydian",
		IsRest:           false,
		RecordingEndBeat: nil,
	}, res)
}

func TestRestChordsHaveRootOne(t *testing.T) {
	for _, sd := range []*string{str("rest"), str("5"), str("x"), nil} {
		c := legacyChord()
		c.SD = sd
		c.IsRest = str("1")
		res, err := Map(c)
		require.NoError(t, err)
		assert.True(t, res.IsRest)
		assert.Equal(t, 1, res.Root)
	}
}

func TestRestSentinelWithoutFlag(t *testing.T) {
	c := legacyChord()
	c.SD = str("rest")
	res, err := Map(c)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Root)
	assert.False(t, res.IsRest)
}

func TestIsRestIsStringEquality(t *testing.T) {
	cases := map[string]bool{"1": true, "0": false, "true": false, "01": false, "1.0": false}
	for flag, want := range cases {
		assert.Equal(t, want, IsRestFlag(str(flag)), "isRest %q", flag)
	}
	assert.False(t, IsRestFlag(nil))
}

func TestFiguredBassCollapse(t *testing.T) {
	cases := []struct {
		fb   *string
		want int
	}{
		{nil, 5},
		{str("6"), 5},
		{str("64"), 5},
		{str("7"), 7},
		{str("65"), 7},
		{str("43"), 7},
		{str("42"), 7},
		{str("9"), 9},
		{str("11"), 11},
		{str("13"), 13},
	}
	for _, c := range cases {
		name := "nil"
		if c.fb != nil {
			name = *c.fb
		}
		t.Run(fmt.Sprintf("fb %s", name), func(t *testing.T) {
			got, err := Type(c.fb)
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}

func TestFiguredBassRejectsNonNumeric(t *testing.T) {
	_, err := Type(str("sus"))
	assert.True(t, errors.Is(err, model.ErrInvalidChordEncoding))
}

func TestSuspensions(t *testing.T) {
	assert := assert.New(t)
	assert.Equal([]int{}, Suspensions(nil))
	assert.Equal([]int{2}, Suspensions(str("sus2")))
	assert.Equal([]int{4}, Suspensions(str("sus4")))
	assert.Equal([]int{2, 4}, Suspensions(str("sus24")))
	assert.Equal([]int{}, Suspensions(str("sus42")))
}

func TestSuspensionsAreNotShared(t *testing.T) {
	first := Suspensions(str("sus24"))
	first[0] = 99
	assert.Equal(t, []int{2, 4}, Suspensions(str("sus24")))
}

func TestEmbellishments(t *testing.T) {
	adds, omits := Embellishments([]string{"add13", "no3", "weird", "add9", "add11", "no5"})
	assert.Equal(t, []int{13, 9, 11}, adds)
	assert.Equal(t, []int{3, 5}, omits)

	adds, omits = Embellishments(nil)
	assert.NotNil(t, adds)
	assert.NotNil(t, omits)
	assert.Empty(t, adds)
	assert.Empty(t, omits)
}

func TestBorrowedIsClampedThenLookedUp(t *testing.T) {
	for i := -40; i <= 40; i++ {
		mode, err := Borrowed(str(fmt.Sprint(i)))
		require.NoError(t, err)
		assert.Contains(t, constants.Modes, mode)

		switch {
		case i >= 1:
			assert.Equal(t, "lydian", mode)
		case i <= -5:
			assert.Equal(t, "locrian", mode)
		default:
			assert.Equal(t, constants.BorrowedScales[i], mode)
		}
	}
}

func TestBorrowed(t *testing.T) {
	cases := map[string]string{
		"1":  "lydian",
		"0":  "major",
		"-1": "mixolydian",
		"-2": "dorian",
		"-3": "minor",
		"-4": "phrygian",
		"-5": "locrian",
		"b":  "minor",
		"37": "lydian",
		"99999999999999999999":  "lydian",
		"-99999999999999999999": "locrian",
	}
	for code, want := range cases {
		got, err := Borrowed(str(code))
		require.NoError(t, err)
		assert.Equal(t, want, got, "borrowed %q", code)
	}

	got, err := Borrowed(nil)
	require.NoError(t, err)
	assert.Equal(t, "", got)

	_, err = Borrowed(str("bb"))
	assert.True(t, errors.Is(err, model.ErrInvalidChordEncoding))
}

func TestCopiesAlterationsAndPedal(t *testing.T) {
	c := legacyChord()
	c.Alternate = []string{"b5", "#9"}
	c.Pedal = str("1")
	res, err := Map(c)
	require.NoError(t, err)

	assert.Equal(t, []string{"b5", "#9"}, res.Alterations)
	require.NotNil(t, res.Pedal)
	assert.Equal(t, "1", *res.Pedal)

	c.Alternate[0] = "changed"
	assert.Equal(t, "b5", res.Alterations[0])
}

func TestInvalidChords(t *testing.T) {
	cases := map[string]func(c *model.LegacyChord){
		"non numeric root": func(c *model.LegacyChord) { c.SD = str("IV") },
		"missing root":     func(c *model.LegacyChord) { c.SD = nil },
		"zero root":        func(c *model.LegacyChord) { c.SD = str("0") },
		"bad beat":         func(c *model.LegacyChord) { c.StartBeatAbs = str("one") },
		"missing duration": func(c *model.LegacyChord) { c.ChordDuration = nil },
		"bad borrowed":     func(c *model.LegacyChord) { c.Borrowed = str("flat") },
		"bad figured bass": func(c *model.LegacyChord) { c.FB = str("6/4") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := legacyChord()
			mutate(&c)
			_, err := Map(c)
			assert.True(t, errors.Is(err, model.ErrInvalidChordEncoding), "%v", err)
		})
	}
}

func TestMapAllKeepsOrder(t *testing.T) {
	second := legacyChord()
	second.SD = str("4")
	second.StartBeatAbs = str("5")

	res, err := MapAll([]model.LegacyChord{legacyChord(), second})
	require.NoError(t, err)
	require.Len(t, res, 2)
	assert.Equal(t, 1, res[0].Root)
	assert.Equal(t, 4, res[1].Root)
	assert.Equal(t, 5.0, res[1].Beat)

	res, err = MapAll(nil)
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestMapAllReportsIndex(t *testing.T) {
	bad := legacyChord()
	bad.SD = str("V")
	_, err := MapAll([]model.LegacyChord{legacyChord(), bad})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chord 1")
	assert.True(t, errors.Is(err, model.ErrInvalidChordEncoding))
}

func TestMapIsDeterministic(t *testing.T) {
	first, err := Map(legacyChord())
	require.NoError(t, err)
	second, err := Map(legacyChord())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
