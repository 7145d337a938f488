package emailsvc

import (
	"bytes"
	"net/http"
	"net/mail"
	"testing"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/services/logger"
)

func publishedMessage() *core.EmailMessage {
	return &core.EmailMessage{
		To:           []mail.Address{{Name: "Ada", Address: "ada@school.test"}},
		Subject:      "Results published: Algebra",
		TemplateName: "results_published",
		TemplateData: map[string]interface{}{
			"StudentName": "Ada",
			"ExamTitle":   "Algebra",
			"ExamDate":    "2021-03-01",
			"ExamID":      "e1",
		},
	}
}

func TestConsoleServiceMock(t *testing.T) {
	conf := core.NewTestConfig()
	svc := NewConsoleServiceMock(conf, logsvc.NewDiscardLogger())

	svc.SendMessages(
		publishedMessage(),
		&core.EmailMessage{Subject: "no recipients", BodyStr: "hi"},
		&core.EmailMessage{To: []mail.Address{{Address: "x@school.test"}}, TemplateName: "unknown"},
	)

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	msg := sent[0]
	assert.Contains(t, msg.TextContent, "Hello Ada,")
	assert.Contains(t, msg.TextContent, `The results of "Algebra" (2021-03-01) have been published.`)
	assert.Contains(t, msg.TextContent, conf.FrontendBaseURL+"/results/e1")
	assert.Contains(t, msg.TextContent, conf.AppName)
	assert.Contains(t, msg.HTMLContent, "<strong>Algebra</strong>")

	svc.Reset()
	assert.Empty(t, svc.SentMessages())
}

func TestConsoleService_Output(t *testing.T) {
	conf := core.NewTestConfig()
	buf := new(bytes.Buffer)
	svc := NewConsoleService(conf, buf, logsvc.NewDiscardLogger())

	require.True(t, svc.sendMessage(publishedMessage()))
	out := buf.String()
	assert.Contains(t, out, "Subject: ["+conf.AppName+"] Results published: Algebra")
	assert.Contains(t, out, `To: "Ada" <ada@school.test>`)
	assert.Contains(t, out, "Content-Type: multipart/alternative; boundary=")
	assert.Contains(t, out, "text/html")
}

func TestSendgridService_Send(t *testing.T) {
	conf := core.NewTestConfig()
	conf.SendgridApiKey = "key"
	svc := NewSendgridService(conf, logsvc.NewDiscardLogger())

	msg := publishedMessage()
	require.NoError(t, msg.Render(conf))

	var got rest.Request
	sendgridAPIFunc = func(req rest.Request) (*rest.Response, error) {
		got = req
		return &rest.Response{StatusCode: http.StatusAccepted}, nil
	}
	defer func() { sendgridAPIFunc = sendgrid.API }()

	require.NoError(t, svc.send(*msg))
	assert.Equal(t, http.MethodPost, string(got.Method))
	assert.Equal(t, host+endpoint, got.BaseURL)
	assert.Contains(t, string(got.Body), "ada@school.test")
	assert.Contains(t, string(got.Body), "Results published: Algebra")

	sendgridAPIFunc = func(req rest.Request) (*rest.Response, error) {
		return &rest.Response{StatusCode: http.StatusBadRequest, Body: "bad"}, nil
	}
	assert.Error(t, svc.send(*msg))

	sendgridAPIFunc = func(req rest.Request) (*rest.Response, error) {
		return nil, errors.New("network down")
	}
	assert.Error(t, svc.send(*msg))
}
