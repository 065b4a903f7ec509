package meeting

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsTechnical(t *testing.T) {
	tests := []struct {
		title string
		want  bool
	}{
		{"Тех.встреча с клиентом", true},
		{"ТЕХ.ВСТРЕЧА в 15:00", true},
		{"Обсуждение [тех встреча]", true},
		{"Созвон (тех встреча) по интеграции", true},
		{"Technical Meeting with ACME", true},
		{"техконсультация по SSO", true},
		{"Технические вопросы по пилоту", true},
		{"Демо продукта", false},
		{"Встреча с клиентом", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, IsTechnical(tt.title))
		})
	}
}

func TestIsExcludedPlanning(t *testing.T) {
	assert.True(t, IsExcludedPlanning("Support планёрка"))
	assert.True(t, IsExcludedPlanning("support планёрка"))
	assert.True(t, IsExcludedPlanning("  Большая планерка  "))

	// Exact match only: anything extra in the title keeps the meeting.
	assert.False(t, IsExcludedPlanning("Support планёрка (перенос)"))
	assert.False(t, IsExcludedPlanning("Планёрка"))
	assert.False(t, IsExcludedPlanning(""))
}
