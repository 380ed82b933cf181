package mailservice

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestSendContactEmail(t *testing.T) {
	mockMC := new(MockMessageConsumer)
	mockMailer := new(MockMailer)
	mockLogger := new(MockLogger)

	mockLogger.On("Info", "contact message sent", mock.Anything).Return()

	ctx, cancel := context.WithCancel(context.Background())

	s := &MailService{
		mb:        mockMC,
		m:         mockMailer,
		recipient: "owner@example.com",
		logger:    mockLogger,
		ctx:       ctx,
		cancel:    cancel,
	}

	s.SendContactEmail()

	time.Sleep(1 * time.Second)

	assert.True(t, mockMailer.IsCalled(), "expected the mailer to be invoked")
	// the contact email always goes to the configured site owner
	assert.Equal(t, "owner@example.com", mockMailer.GetEmail())

	mockLogger.AssertExpectations(t)

	t.Cleanup(func() {
		s.Close()
	})
}
