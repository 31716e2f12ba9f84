package appointments

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/blclinic/appointments/internal/schedule"
)

func TestCreateRequestValidate(t *testing.T) {
	valid := CreateRequest{
		PatientName:  "Asha Rao",
		PatientEmail: "asha@example.com",
		PatientPhone: "+919876543210",
		Date:         "2025-10-20",
		Time:         "09:00",
	}

	tests := []struct {
		name    string
		mutate  func(r *CreateRequest)
		wantErr error
	}{
		{"valid", func(r *CreateRequest) {}, nil},
		{"missing name", func(r *CreateRequest) { r.PatientName = "  " }, ErrMissingName},
		{"missing email", func(r *CreateRequest) { r.PatientEmail = "" }, ErrMissingEmail},
		{"missing phone", func(r *CreateRequest) { r.PatientPhone = "" }, ErrMissingPhone},
		{"bad date", func(r *CreateRequest) { r.Date = "20/10/2025" }, schedule.ErrInvalidDate},
		{"missing time", func(r *CreateRequest) { r.Time = "" }, ErrMissingTime},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			tt.mutate(&req)
			err := req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPaymentStatusTerminal(t *testing.T) {
	assert.False(t, StatusPending.Terminal())
	assert.True(t, StatusCompleted.Terminal())
	assert.True(t, StatusFailed.Terminal())
}

func TestAppointmentClone(t *testing.T) {
	orig := newTestAppointment("a1", "2025-10-20", "09:00")
	cp := orig.Clone()
	cp.PatientName = "someone else"
	assert.Equal(t, "Asha Rao", orig.PatientName)
}
