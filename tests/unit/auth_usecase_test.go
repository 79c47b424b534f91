package unit

import (
	"context"
	"testing"
	"time"

	"unispace/internal/domain/model"
	"unispace/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
)

type IssuerMock struct{ mock.Mock }

func (m *IssuerMock) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	args := m.Called(userID, role, now)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ usecase.AccessTokenIssuer = (*IssuerMock)(nil)

// bcryptは遅いのでテストはMinCost
const testBcryptCost = bcrypt.MinCost

func TestAuthUsecase_Register_InvalidEmail(t *testing.T) {
	uc := usecase.NewAuthUsecase(new(UserRepoMock), new(IssuerMock), testBcryptCost)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "not-an-email",
		Password: "password123",
	})
	assertErrContains(t, err, "invalid email")
}

func TestAuthUsecase_Register_PasswordTooShort(t *testing.T) {
	uc := usecase.NewAuthUsecase(new(UserRepoMock), new(IssuerMock), testBcryptCost)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "a@example.com",
		Password: "short",
	})
	assertErrContains(t, err, "password too short")
}

func TestAuthUsecase_Register_DuplicateEmail(t *testing.T) {
	userRepo := new(UserRepoMock)
	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{ID: 1}, nil)

	uc := usecase.NewAuthUsecase(userRepo, new(IssuerMock), testBcryptCost)

	_, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "a@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "email already exists")

	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAuthUsecase_Register_Success_HashesAndNormalizes(t *testing.T) {
	userRepo := new(UserRepoMock)

	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, nil)
	userRepo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
		// 平文は保存しない
		if u.PasswordHash == "password123" || u.PasswordHash == "" {
			return false
		}
		return u.Email == "a@example.com" && u.Role == model.RoleUser && u.IsActive
	})).Return(nil)

	uc := usecase.NewAuthUsecase(userRepo, new(IssuerMock), testBcryptCost)

	// メールは小文字化される
	out, err := uc.Register(context.Background(), usecase.RegisterInput{
		Email:    "A@Example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, "a@example.com", out.Email)
	assert.Equal(t, "USER", out.Role)

	userRepo.AssertExpectations(t)
}

func TestAuthUsecase_Login_UnknownEmail(t *testing.T) {
	userRepo := new(UserRepoMock)
	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(nil, nil)

	uc := usecase.NewAuthUsecase(userRepo, new(IssuerMock), testBcryptCost)

	_, err := uc.Login(context.Background(), usecase.LoginInput{
		Email:    "a@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "invalid credentials")
}

func TestAuthUsecase_Login_InactiveUser(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), testBcryptCost)

	userRepo := new(UserRepoMock)
	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID: 1, Email: "a@example.com", PasswordHash: string(hash), IsActive: false,
	}, nil)

	uc := usecase.NewAuthUsecase(userRepo, new(IssuerMock), testBcryptCost)

	_, err := uc.Login(context.Background(), usecase.LoginInput{
		Email:    "a@example.com",
		Password: "password123",
	})
	assertErrContains(t, err, "user is inactive")
}

func TestAuthUsecase_Login_WrongPassword(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), testBcryptCost)

	userRepo := new(UserRepoMock)
	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID: 1, Email: "a@example.com", PasswordHash: string(hash), IsActive: true,
	}, nil)

	issuer := new(IssuerMock)
	uc := usecase.NewAuthUsecase(userRepo, issuer, testBcryptCost)

	_, err := uc.Login(context.Background(), usecase.LoginInput{
		Email:    "a@example.com",
		Password: "wrongpassword",
	})
	assertErrContains(t, err, "invalid credentials")

	issuer.AssertNotCalled(t, "Issue", mock.Anything, mock.Anything, mock.Anything)
}

func TestAuthUsecase_Login_Success_IssuesToken(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("password123"), testBcryptCost)

	userRepo := new(UserRepoMock)
	userRepo.On("FindByEmail", mock.Anything, "a@example.com").Return(&model.User{
		ID: 42, Email: "a@example.com", PasswordHash: string(hash),
		Role: model.RoleAdmin, IsActive: true,
	}, nil)
	// 最終ログイン更新はベストエフォート
	userRepo.On("Update", mock.Anything, mock.Anything).Return(nil)

	expiresAt := time.Now().Add(15 * time.Minute)
	issuer := new(IssuerMock)
	issuer.On("Issue", int64(42), model.RoleAdmin, mock.Anything).Return("signed-token", expiresAt, nil)

	uc := usecase.NewAuthUsecase(userRepo, issuer, testBcryptCost)

	out, err := uc.Login(context.Background(), usecase.LoginInput{
		Email:    "a@example.com",
		Password: "password123",
	})
	assert.NoError(t, err)
	assert.Equal(t, "signed-token", out.AccessToken)
	assert.Equal(t, int64(42), out.User.ID)
	assert.Equal(t, "ADMIN", out.User.Role)

	issuer.AssertExpectations(t)
	userRepo.AssertExpectations(t)
}
