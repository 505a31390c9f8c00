package segment_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mariil/leadbot/internal/segment"
)

func TestIsKnown(t *testing.T) {
	for _, seg := range segment.All() {
		assert.True(t, segment.IsKnown(string(seg)), seg)
	}
	assert.False(t, segment.IsKnown("crypto"))
	assert.False(t, segment.IsKnown(""))
	assert.False(t, segment.IsKnown("Specialist"))
}

func TestTitleOf(t *testing.T) {
	assert.Equal(t, "Специалист / Эксперт", segment.TitleOf(segment.Specialist))
	assert.Equal(t, "Бизнес", segment.TitleOf(segment.Business))
	// Неизвестное значение возвращается как есть
	assert.Equal(t, "crypto", segment.TitleOf(segment.Segment("crypto")))
}

func TestCallbackRoundTrip(t *testing.T) {
	for _, seg := range segment.All() {
		got, ok := segment.FromCallbackData(segment.CallbackData(seg))
		assert.True(t, ok)
		assert.Equal(t, seg, got)
	}
}

func TestFromCallbackDataRejectsGarbage(t *testing.T) {
	for _, data := range []string{"", "brief_start", "seg_", "seg_crypto", "segspecialist"} {
		_, ok := segment.FromCallbackData(data)
		assert.False(t, ok, data)
	}
}
