package appointments

import "errors"

var (
	// ErrMissingName is returned when the patient name is empty.
	ErrMissingName = errors.New("patient_name is required")

	// ErrMissingEmail is returned when the patient email is empty.
	ErrMissingEmail = errors.New("patient_email is required")

	// ErrMissingPhone is returned when the patient phone is empty.
	ErrMissingPhone = errors.New("patient_phone is required")

	// ErrMissingTime is returned when no slot label is supplied.
	ErrMissingTime = errors.New("appointment_time is required")

	// ErrNotFound is returned when no appointment has the given id.
	ErrNotFound = errors.New("appointment not found")

	// ErrDuplicateID is returned when inserting an id that already exists.
	ErrDuplicateID = errors.New("appointment id already exists")

	// ErrSlotTaken is returned when the (date, time) slot is already
	// reserved by another completed appointment.
	ErrSlotTaken = errors.New("slot already booked")

	// ErrTerminalState is returned when a lifecycle transition targets an
	// appointment that is already completed or failed.
	ErrTerminalState = errors.New("appointment already finalized")

	// ErrVerificationFailed is returned when the payment gateway rejects
	// the supplied proof; the appointment is marked failed.
	ErrVerificationFailed = errors.New("payment verification failed")
)
