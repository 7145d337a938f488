package exam

import "testing"

func TestExam_TransitionTo(t *testing.T) {
	tests := []struct {
		from        Status
		to          Status
		wantStatus  Status
		wantChanged bool
		wantErr     error
	}{
		{from: StatusScheduled, to: StatusOngoing, wantStatus: StatusOngoing, wantChanged: true},
		{from: StatusOngoing, to: StatusCompleted, wantStatus: StatusCompleted, wantChanged: true},
		{from: StatusScheduled, to: StatusCompleted, wantStatus: StatusScheduled, wantErr: ErrInvalidTransition},
		{from: StatusCompleted, to: StatusOngoing, wantStatus: StatusCompleted, wantErr: ErrInvalidTransition},
		{from: StatusOngoing, to: StatusScheduled, wantStatus: StatusOngoing, wantErr: ErrInvalidTransition},
		{from: StatusScheduled, to: StatusCancelled, wantStatus: StatusCancelled, wantChanged: true},
		{from: StatusCompleted, to: StatusCancelled, wantStatus: StatusCancelled, wantChanged: true},
		{from: StatusScheduled, to: StatusPublished, wantStatus: StatusPublished, wantChanged: true},
		{from: StatusOngoing, to: StatusPublished, wantStatus: StatusPublished, wantChanged: true},
		{from: StatusCompleted, to: StatusPublished, wantStatus: StatusPublished, wantChanged: true},
		{from: StatusPublished, to: StatusPublished, wantStatus: StatusPublished},
		{from: StatusCancelled, to: StatusCancelled, wantStatus: StatusCancelled},
		{from: StatusPublished, to: StatusCancelled, wantStatus: StatusPublished, wantErr: ErrInvalidTransition},
		{from: StatusPublished, to: StatusOngoing, wantStatus: StatusPublished, wantErr: ErrInvalidTransition},
		{from: StatusCancelled, to: StatusPublished, wantStatus: StatusCancelled, wantErr: ErrCancelled},
		{from: StatusCancelled, to: StatusScheduled, wantStatus: StatusCancelled, wantErr: ErrInvalidTransition},
		{from: StatusScheduled, to: "ARCHIVED", wantStatus: StatusScheduled, wantErr: ErrInvalidTransition},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+" -> "+string(tt.to), func(t *testing.T) {
			e := Exam{Status: tt.from}
			changed, err := e.TransitionTo(tt.to)
			if err != tt.wantErr {
				t.Errorf("TransitionTo() error = %v, wantErr %v", err, tt.wantErr)
			}
			if changed != tt.wantChanged {
				t.Errorf("TransitionTo() changed = %v, want %v", changed, tt.wantChanged)
			}
			if e.Status != tt.wantStatus {
				t.Errorf("TransitionTo() status = %v, want %v", e.Status, tt.wantStatus)
			}
		})
	}
}

func TestExam_CheckGradable(t *testing.T) {
	tests := []struct {
		status  Status
		wantErr error
	}{
		{status: StatusScheduled},
		{status: StatusOngoing},
		{status: StatusCompleted},
		{status: StatusPublished, wantErr: ErrLocked},
		{status: StatusCancelled, wantErr: ErrCancelled},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if err := (Exam{Status: tt.status}).CheckGradable(); err != tt.wantErr {
				t.Errorf("CheckGradable() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, st := range AllStatuses {
		want := st == StatusCancelled || st == StatusPublished
		if got := st.IsTerminal(); got != want {
			t.Errorf("%s.IsTerminal() = %v, want %v", st, got, want)
		}
		if st.IsLocked() != (st == StatusPublished) {
			t.Errorf("%s.IsLocked() = %v", st, st.IsLocked())
		}
	}
}
