package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/gradebook/core"
)

func TestRollbarLogger(t *testing.T) {
	conf := core.NewTestConfig()
	conf.Debug = true

	buf := new(bytes.Buffer)
	logger := NewRollbarLogger(log.New(buf, "", 0), conf)

	actor := core.Actor{ID: "u1", Username: "teacher", Email: "t@school.test"}
	newArgs := logger.prepare("boom", []interface{}{errors.New("db down"), actor, map[string]interface{}{"exam_id": "e1"}})
	assert.Len(t, newArgs, 3, "the actor is not forwarded as an extra")
	assert.Equal(t, "boom", newArgs[0])

	logger.Warn("publish notification failed", map[string]interface{}{"exam_id": "e1"}, actor)
	out := buf.String()
	assert.Contains(t, out, "[WARN] publish notification failed")
	assert.Contains(t, out, "exam_id:e1")
}
