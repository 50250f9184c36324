package cmd

import (
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func normalizeRequest(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	HandleNormalize(w, req)
	return w
}

func TestHandleNormalizeReadErrors(t *testing.T) {
	tooLarge := strings.NewReader(strings.Repeat("a", maxBodyBytes+1))
	w := normalizeRequest(t, httptest.NewRequest(http.MethodPost, "/normalize", tooLarge))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	broken := iotest.ErrReader(iotest.ErrTimeout)
	w = normalizeRequest(t, httptest.NewRequest(http.MethodPost, "/normalize", broken))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, gjson.Get(w.Body.String(), "detail").String(), "timeout")
}

func TestHandleNormalizeRejectsNonFiniteTiming(t *testing.T) {
	doc := `<theorytab><meta><mode>1</mode><BPM>90</BPM><beats_in_measure>4</beats_in_measure>` +
		`<active_start>0</active_start><active_stop>1</active_stop></meta><data><segment><harmony><chord>` +
		`<sd>1</sd><start_beat_abs>NaN</start_beat_abs><chord_duration>Inf</chord_duration>` +
		`</chord></harmony></segment></data></theorytab>`
	w := normalizeRequest(t, httptest.NewRequest(http.MethodPost, "/normalize", strings.NewReader(doc)))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.True(t, gjson.Valid(w.Body.String()))
}

func TestWriteJSONFailsBeforeHeader(t *testing.T) {
	w := httptest.NewRecorder()
	writeJSON(w, http.StatusOK, map[string]float64{"beat": math.NaN()})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.Equal(t, "could not encode response", gjson.Get(w.Body.String(), "detail").String())
}
