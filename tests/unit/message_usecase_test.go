package unit

import (
	"context"
	"errors"
	"testing"

	"unispace/internal/domain/model"
	repo "unispace/internal/repository"
	"unispace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) NotifyNewMessage(ctx context.Context, msg model.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

var _ usecase.MessageNotifier = (*NotifierMock)(nil)

func TestMessageUsecase_Submit_InvalidEmail(t *testing.T) {
	uc := usecase.NewMessageUsecase(new(MessageRepoMock), new(AuditRepoMock), nil)

	_, err := uc.Submit(context.Background(), usecase.SubmitMessageInput{
		Name:  "Jane",
		Email: "nope",
		Body:  "I need a quote for tiles",
	})
	assertErrContains(t, err, "invalid email")
}

func TestMessageUsecase_Submit_EmptyBody(t *testing.T) {
	uc := usecase.NewMessageUsecase(new(MessageRepoMock), new(AuditRepoMock), nil)

	_, err := uc.Submit(context.Background(), usecase.SubmitMessageInput{
		Name:  "Jane",
		Email: "jane@example.com",
		Body:  "   ",
	})
	assertErrContains(t, err, "invalid body")
}

func TestMessageUsecase_Submit_CreatesUnread(t *testing.T) {
	msgRepo := new(MessageRepoMock)

	msgRepo.On("Create", mock.Anything, mock.MatchedBy(func(m model.Message) bool {
		return m.Status == model.MessageStatusUnread &&
			m.Name == "Jane" &&
			m.Email == "jane@example.com"
	})).Return(model.Message{ID: 1, Status: model.MessageStatusUnread}, nil)

	uc := usecase.NewMessageUsecase(msgRepo, new(AuditRepoMock), nil)

	out, err := uc.Submit(context.Background(), usecase.SubmitMessageInput{
		Name:  "  Jane  ",
		Email: "jane@example.com",
		Body:  "I need a quote for tiles",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(1), out.ID)

	msgRepo.AssertExpectations(t)
}

// 通知の失敗は投稿の成立に影響しない
func TestMessageUsecase_Submit_NotifyFailure_Ignored(t *testing.T) {
	msgRepo := new(MessageRepoMock)
	msgRepo.On("Create", mock.Anything, mock.Anything).Return(model.Message{ID: 2}, nil)

	notifier := new(NotifierMock)
	notifier.On("NotifyNewMessage", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	uc := usecase.NewMessageUsecase(msgRepo, new(AuditRepoMock), notifier)

	out, err := uc.Submit(context.Background(), usecase.SubmitMessageInput{
		Name:  "Jane",
		Email: "jane@example.com",
		Body:  "hello",
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), out.ID)

	notifier.AssertExpectations(t)
}

func TestMessageUsecase_MarkRead_NotFound(t *testing.T) {
	msgRepo := new(MessageRepoMock)
	msgRepo.On("FindByID", mock.Anything, int64(9)).Return(model.Message{}, repo.ErrNotFound)

	uc := usecase.NewMessageUsecase(msgRepo, new(AuditRepoMock), nil)

	err := uc.MarkRead(context.Background(), 1, 9)
	assertErrContains(t, err, "not found")
}

// 既読の既読化は何もしない
func TestMessageUsecase_MarkRead_AlreadyRead_NoOp(t *testing.T) {
	msgRepo := new(MessageRepoMock)
	audit := new(AuditRepoMock)

	msgRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Message{
		ID: 3, Status: model.MessageStatusRead,
	}, nil)

	uc := usecase.NewMessageUsecase(msgRepo, audit, nil)

	err := uc.MarkRead(context.Background(), 1, 3)
	assert.NoError(t, err)

	msgRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
	audit.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMessageUsecase_MarkRead_Success_Audits(t *testing.T) {
	msgRepo := new(MessageRepoMock)
	audit := new(AuditRepoMock)

	adminID := int64(7)

	msgRepo.On("FindByID", mock.Anything, int64(3)).Return(model.Message{
		ID: 3, Status: model.MessageStatusUnread,
	}, nil)
	msgRepo.On("UpdateStatus", mock.Anything, int64(3), model.MessageStatusRead).Return(nil)

	audit.On("Create", mock.Anything, mock.MatchedBy(func(a model.AuditLog) bool {
		return a.ActorUserID == adminID &&
			a.Action == model.AuditActionUpdateMessageStatus &&
			a.ResourceType == model.AuditResourceMessage &&
			a.ResourceID == 3
	})).Return(nil)

	uc := usecase.NewMessageUsecase(msgRepo, audit, nil)

	err := uc.MarkRead(context.Background(), adminID, 3)
	assert.NoError(t, err)

	msgRepo.AssertExpectations(t)
	audit.AssertExpectations(t)
}
