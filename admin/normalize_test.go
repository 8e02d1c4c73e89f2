package admin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeKnownShapes(t *testing.T) {
	records := `[{"id":1,"name":"Cable Tray","price":"120.5"},{"id":"2","name":"Busbar","category":"Switchgear","status":"Inactive","price":80}]`

	shapes := map[string]string{
		"bare array":          records,
		"data key":            `{"data":` + records + `}`,
		"items key":           `{"items":` + records + `}`,
		"products key":        `{"products":` + records + `}`,
		"envelope with items": `{"success":true,"data":{"items":` + records + `}}`,
		"envelope with array": `{"success":1,"data":{"products":` + records + `}}`,
	}

	for name, payload := range shapes {
		t.Run(name, func(t *testing.T) {
			got := Normalize([]byte(payload), ProductFromRaw)
			require.Len(t, got, 2)

			assert.Equal(t, "1", got[0].ID)
			assert.Equal(t, "Cable Tray", got[0].Name)
			assert.Equal(t, 120.5, got[0].Price)
			assert.Equal(t, Uncategorized, got[0].Category)
			assert.Equal(t, StatusActive, got[0].Status)

			assert.Equal(t, "2", got[1].ID)
			assert.Equal(t, "Switchgear", got[1].Category)
			assert.Equal(t, "Inactive", got[1].Status)
		})
	}
}

func TestNormalizeUnknownShapes(t *testing.T) {
	payloads := []string{
		``,
		`null`,
		`"text"`,
		`42`,
		`{"message":"ok"}`,
		`{"success":false,"data":{"items":[{"id":1}]}}`,
		`{"data":{"items":[{"id":1}]}}`,
		`{not json`,
	}
	for _, payload := range payloads {
		assert.NotPanics(t, func() {
			got := Normalize([]byte(payload), ProductFromRaw)
			assert.NotNil(t, got)
			assert.Empty(t, got, payload)
		})
	}
}

func TestNormalizeEnvelopeUnwrapsOnce(t *testing.T) {
	nested := `{"success":true,"data":{"success":true,"data":{"items":[{"id":1}]}}}`
	assert.Empty(t, Normalize([]byte(nested), ProductFromRaw))
	assert.Equal(t, ShapeUnknown, DetectShape([]byte(nested)))
}

func TestNormalizeDropsInvalidAndDuplicateRecords(t *testing.T) {
	payload := `[{"id":1,"name":"A"},{"name":"no id"},"junk",{"id":1,"name":"A again"},{"id":2,"name":"B"}]`

	got := Normalize([]byte(payload), ProductFromRaw)
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "B", got[1].Name)
}

func TestDetectShape(t *testing.T) {
	assert.Equal(t, ShapeArray, DetectShape([]byte(`[]`)))
	assert.Equal(t, ShapeKeyed, DetectShape([]byte(`{"images":[]}`)))
	assert.Equal(t, ShapeEnvelope, DetectShape([]byte(`{"success":true,"data":{"files":[]}}`)))
	assert.Equal(t, ShapeUnknown, DetectShape([]byte(`{"success":true}`)))
	assert.Equal(t, "envelope", ShapeEnvelope.String())
}

func TestNormalizeOne(t *testing.T) {
	cases := map[string]string{
		"bare":     `{"id":7,"name":"Relay"}`,
		"data":     `{"data":{"id":7,"name":"Relay"}}`,
		"singular": `{"product":{"id":7,"name":"Relay"}}`,
		"envelope": `{"success":true,"data":{"product":{"id":7,"name":"Relay"}}}`,
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			p, ok := NormalizeOne([]byte(payload), ProductFromRaw, "product")
			require.True(t, ok)
			assert.Equal(t, "7", p.ID)
			assert.Equal(t, "Relay", p.Name)
		})
	}

	for _, payload := range []string{``, `{}`, `{"success":true}`, `{"message":"updated"}`, `[{"id":1}]`} {
		_, ok := NormalizeOne([]byte(payload), ProductFromRaw, "product")
		assert.False(t, ok, payload)
	}
}

func TestExtractCount(t *testing.T) {
	cases := map[string]int{
		`[{"id":1},{"id":2}]`:                          2,
		`{"count":12}`:                                 12,
		`{"total":5,"data":[{"id":1}]}`:                5,
		`{"data":[{"id":1}],"pagination":{"total":40}}`: 40,
		`{"meta":{"total":3}}`:                         3,
		`{"success":true,"data":{"count":9}}`:          9,
		`{"data":4}`:                                   4,
		`{"success":true,"data":{"items":[{"id":1}]}}`: 1,
		`{"enquiries":[]}`:                             0,
	}
	for payload, want := range cases {
		got, ok := ExtractCount([]byte(payload))
		assert.True(t, ok, payload)
		assert.Equal(t, want, got, payload)
	}

	_, ok := ExtractCount([]byte(`{"message":"nope"}`))
	assert.False(t, ok)
}

func TestMappersFillDefaults(t *testing.T) {
	g, ok := GalleryImageFromRaw(map[string]any{"id": "g1", "title": "Panel room", "image_url": "/img/a.jpg"})
	require.True(t, ok)
	assert.Equal(t, "/img/a.jpg", g.URL)
	assert.Equal(t, "Panel room", g.AltText)
	assert.Equal(t, Uncategorized, g.Category)

	e, ok := EnquiryFromRaw(map[string]any{"id": "e1", "name": "Asha"})
	require.True(t, ok)
	assert.Equal(t, "New", e.Status)

	_, ok = ClientFromRaw(map[string]any{"name": "No id"})
	assert.False(t, ok)
}
