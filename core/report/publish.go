package report

import (
	"context"
	"net/mail"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/exam"
)

const publishedTemplate = "results_published"

// Publish locks the exam's results and makes them visible to students, then returns the reloaded report.
// Publishing twice succeeds; students are notified on the first publish only.
func (svc *Service) Publish(ctx context.Context, examID string) (Report, error) {
	_, changed, err := svc.exams.Publish(ctx, examID)
	if err != nil {
		return Report{}, err
	}

	sh, err := svc.load(ctx, examID)
	if err != nil {
		return Report{}, err
	}
	rep := sh.report()

	if changed {
		svc.logger.Info("exam results published", map[string]interface{}{
			"exam_id":  examID,
			"students": rep.Statistics.TotalStudents,
			"graded":   rep.Statistics.GradedCount,
		})
		svc.notifyPublished(sh)
	}
	return rep, nil
}

// notifyPublished emails every enrolled student who has an address. Delivery is best effort.
func (svc *Service) notifyPublished(sh *sheet) {
	if svc.mailSvc == nil {
		return
	}
	messages := make([]*core.EmailMessage, 0, len(sh.students))
	for _, st := range sh.students {
		addr, ok := st.Address()
		if !ok {
			continue
		}
		messages = append(messages, &core.EmailMessage{
			To:           []mail.Address{addr},
			Subject:      "Results published: " + sh.exam.Title,
			TemplateName: publishedTemplate,
			TemplateData: map[string]interface{}{
				"StudentName": st.Name,
				"ExamTitle":   sh.exam.Title,
				"ExamDate":    sh.exam.ExamDate.Format(exam.DateLayout),
				"ExamID":      sh.exam.ID,
			},
		})
	}
	if len(messages) == 0 {
		return
	}
	if svc.asyncNotify {
		go svc.mailSvc.SendMessages(messages...)
		return
	}
	svc.mailSvc.SendMessages(messages...)
}
