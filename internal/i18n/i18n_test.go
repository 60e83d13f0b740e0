package i18n

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNegotiate(t *testing.T) {
	cases := []struct {
		param, header string
		want          Lang
	}{
		{"zh", "en-US", Chinese},
		{"en", "zh-CN", English},
		{"", "zh-CN,zh;q=0.9,en;q=0.8", Chinese},
		{"", "fr-FR", English},
		{"fr", "", English},
		{"", "", English},
		{"", "!!garbage", English},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Negotiate(c.param, c.header), "%q %q", c.param, c.header)
	}
}

func TestTFallsBack(t *testing.T) {
	assert.Equal(t, "请输入产品关键词", T(Chinese, "keywordsRequired"))
	assert.Equal(t, "Please enter product keywords", T(English, "keywordsRequired"))
	assert.Equal(t, "missingKey", T(Chinese, "missingKey"))
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range messages[English] {
		_, ok := messages[Chinese][key]
		assert.True(t, ok, key)
	}
	assert.Len(t, messages[Chinese], len(messages[English]))
}

func TestFailure(t *testing.T) {
	assert.Equal(t, "Failed (debugId=ab12cd34): boom", Failure(English, "ab12cd34", "boom"))
	assert.Equal(t, "失败（debugId=ab12cd34）：boom", Failure(Chinese, "ab12cd34", "boom"))
}

func TestTranslatorOther(t *testing.T) {
	assert.Equal(t, Chinese, Translator{Lang: English}.Other())
	assert.Equal(t, English, Translator{Lang: Chinese}.Other())
}
