package ac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScreenMatchesCaseInsensitive(t *testing.T) {
	require.NoError(t, Build([]string{"保录取", "Guaranteed Admission"}))
	t.Cleanup(func() { _ = Build(nil) })

	hit, words := Screen("我们提供guaranteed admission服务")
	assert.True(t, hit)
	assert.Contains(t, words, "guaranteed admission")

	hit, words = Screen("花钱保录取靠谱吗")
	assert.True(t, hit)
	assert.Contains(t, words, "保录取")

	hit, _ = Screen("正常的咨询内容")
	assert.False(t, hit)
}

func TestBuildEmptyDictClearsMachine(t *testing.T) {
	require.NoError(t, Build([]string{"违禁"}))
	require.NoError(t, Build(nil))

	hit, words := Screen("违禁内容")
	assert.False(t, hit)
	assert.Nil(t, words)
}
