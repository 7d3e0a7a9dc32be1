package utils_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tsinghua-fib-lab/trace-postprocess/utils"
)

func TestFind(t *testing.T) {
	data := []string{"lane a", "lane b"}
	dataMap := map[string]string{"a": "lane a", "b": "lane b"}

	ok, failed := utils.Find(dataMap, data, nil)
	assert.Equal(t, data, ok)
	assert.Empty(t, failed)

	ok, failed = utils.Find(dataMap, data, []string{"b", "x", "a"})
	assert.Equal(t, []string{"lane b", "lane a"}, ok)
	assert.Equal(t, []string{"x"}, failed)
}
