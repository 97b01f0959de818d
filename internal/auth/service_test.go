package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/gymlog/internal/model"
	"github.com/hitoshi/gymlog/internal/repository"
)

// --- モック ---

type mockUserRepo struct {
	createFn         func(ctx context.Context, user *model.User) error
	findByIDFn       func(ctx context.Context, id string) (*model.User, error)
	findByUsernameFn func(ctx context.Context, username string) (*model.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}
func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.findByUsernameFn != nil {
		return m.findByUsernameFn(ctx, username)
	}
	return nil, nil
}

type mockSessionRepo struct {
	createFn     func(ctx context.Context, session *model.Session) error
	findByIDFn   func(ctx context.Context, id string) (*model.Session, error)
	deleteByIDFn func(ctx context.Context, id string) error
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	if m.createFn != nil {
		return m.createFn(ctx, session)
	}
	return nil
}
func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, id)
	}
	return nil, nil
}
func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	if m.deleteByIDFn != nil {
		return m.deleteByIDFn(ctx, id)
	}
	return nil
}

func newTestService(userRepo *mockUserRepo, sessionRepo *mockSessionRepo) *Service {
	return NewService(userRepo, sessionRepo, ServiceConfig{SessionMaxAge: 86400})
}

// --- テスト ---

// TestService_Register_Success は登録成功時にbcryptハッシュが保存されることを検証する。
func TestService_Register_Success(t *testing.T) {
	var created *model.User
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			created = user
			return nil
		},
	}

	svc := newTestService(userRepo, &mockSessionRepo{})

	user, err := svc.Register(context.Background(), "alice", "secret-pass")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}
	if created == nil {
		t.Fatal("expected user to be created")
	}
	if created.PasswordHash == "secret-pass" {
		t.Error("password must not be stored as plaintext")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(created.PasswordHash), []byte("secret-pass")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

// TestService_Register_TrimsWhitespace は前後の空白がトリムされることを検証する。
func TestService_Register_TrimsWhitespace(t *testing.T) {
	userRepo := &mockUserRepo{}
	svc := newTestService(userRepo, &mockSessionRepo{})

	user, err := svc.Register(context.Background(), "  alice  ", "  secret  ")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("Username = %q, want %q", user.Username, "alice")
	}
}

// TestService_Register_EmptyFields はトリム後に空の入力がバリデーションエラーになることを検証する。
func TestService_Register_EmptyFields(t *testing.T) {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"empty username", "", "secret"},
		{"empty password", "alice", ""},
		{"whitespace username", "   ", "secret"},
		{"whitespace password", "alice", "   "},
		{"both empty", "", ""},
	}

	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.username, tt.password)
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected APIError, got %v", err)
			}
			if apiErr.Category != "validation" {
				t.Errorf("Category = %q, want %q", apiErr.Category, "validation")
			}
		})
	}
}

// TestService_Register_DuplicateUsername は2回目の登録が競合エラーになることを検証する。
func TestService_Register_DuplicateUsername(t *testing.T) {
	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "user-1", Username: username}, nil
		},
	}

	svc := newTestService(userRepo, &mockSessionRepo{})

	_, err := svc.Register(context.Background(), "alice", "secret")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Code != model.ErrCodeUsernameTaken {
		t.Errorf("Code = %q, want %q", apiErr.Code, model.ErrCodeUsernameTaken)
	}
}

// TestService_Register_RaceOnUsername は先行チェック通過後に一意制約で敗れた場合も
// 競合エラーとして返ることを検証する。
func TestService_Register_RaceOnUsername(t *testing.T) {
	userRepo := &mockUserRepo{
		createFn: func(ctx context.Context, user *model.User) error {
			return fmt.Errorf("username %q: %w", user.Username, repository.ErrDuplicateKey)
		},
	}

	svc := newTestService(userRepo, &mockSessionRepo{})

	_, err := svc.Register(context.Background(), "alice", "secret")
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Category != "conflict" {
		t.Errorf("Category = %q, want %q", apiErr.Category, "conflict")
	}
}

// TestService_Register_DoesNotCreateSession は登録がログインを伴わないことを検証する。
func TestService_Register_DoesNotCreateSession(t *testing.T) {
	sessionCreated := false
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			sessionCreated = true
			return nil
		},
	}

	svc := newTestService(&mockUserRepo{}, sessionRepo)

	if _, err := svc.Register(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if sessionCreated {
		t.Error("Register must not create a session")
	}
}

// TestService_Login_Success はログイン成功時にセッションが発行されることを検証する。
func TestService_Login_Success(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)
	userRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "user-1", Username: username, PasswordHash: string(hash)}, nil
		},
	}

	var saved *model.Session
	sessionRepo := &mockSessionRepo{
		createFn: func(ctx context.Context, session *model.Session) error {
			saved = session
			return nil
		},
	}

	svc := newTestService(userRepo, sessionRepo)

	session, err := svc.Login(context.Background(), "alice", "secret")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if session.UserID != "user-1" {
		t.Errorf("UserID = %q, want %q", session.UserID, "user-1")
	}
	if len(session.ID) != 64 {
		t.Errorf("session ID length = %d, want 64 hex chars", len(session.ID))
	}
	if saved == nil {
		t.Fatal("expected session to be persisted")
	}
	if !saved.ExpiresAt.After(time.Now()) {
		t.Error("expected session to expire in the future")
	}
}

// TestService_Login_UniformError は未登録ユーザー名とパスワード不一致が
// 同一のエラーを返すことを検証する。
func TestService_Login_UniformError(t *testing.T) {
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret"), bcrypt.DefaultCost)

	unknownUserRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, nil
		},
	}
	wrongPassRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return &model.User{ID: "user-1", Username: username, PasswordHash: string(hash)}, nil
		},
	}

	_, errUnknown := newTestService(unknownUserRepo, &mockSessionRepo{}).Login(context.Background(), "nobody", "secret")
	_, errWrongPass := newTestService(wrongPassRepo, &mockSessionRepo{}).Login(context.Background(), "alice", "wrong")

	var apiErr1, apiErr2 *model.APIError
	if !errors.As(errUnknown, &apiErr1) {
		t.Fatalf("expected APIError for unknown user, got %v", errUnknown)
	}
	if !errors.As(errWrongPass, &apiErr2) {
		t.Fatalf("expected APIError for wrong password, got %v", errWrongPass)
	}
	if apiErr1.Code != apiErr2.Code || apiErr1.Message != apiErr2.Message {
		t.Errorf("error signals differ: %v vs %v", apiErr1, apiErr2)
	}
}

// TestService_Login_UnknownUserTakesComparableTime は未登録ユーザー名でも
// bcrypt比較と同等のコストがかかることを検証する。
func TestService_Login_UnknownUserTakesComparableTime(t *testing.T) {
	if cost, err := bcrypt.Cost(dummyPasswordHash); err != nil || cost != bcrypt.DefaultCost {
		t.Fatalf("dummy hash cost = %d (err %v), want %d", cost, err, bcrypt.DefaultCost)
	}

	unknownUserRepo := &mockUserRepo{
		findByUsernameFn: func(ctx context.Context, username string) (*model.User, error) {
			return nil, nil
		},
	}
	svc := newTestService(unknownUserRepo, &mockSessionRepo{})

	baseStart := time.Now()
	_ = bcrypt.CompareHashAndPassword(dummyPasswordHash, []byte("secret"))
	baseline := time.Since(baseStart)

	start := time.Now()
	if _, err := svc.Login(context.Background(), "nobody", "secret"); err == nil {
		t.Fatal("expected login to fail for unknown user")
	}
	elapsed := time.Since(start)

	// 比較を省略していれば数マイクロ秒で返るため、余裕を持った下限で判定する
	if elapsed < baseline/4 {
		t.Errorf("login for unknown user returned in %v, baseline compare took %v", elapsed, baseline)
	}
}

// TestService_Logout_DeletesSession はログアウトがセッション行を削除することを検証する。
func TestService_Logout_DeletesSession(t *testing.T) {
	deletedID := ""
	sessionRepo := &mockSessionRepo{
		deleteByIDFn: func(ctx context.Context, id string) error {
			deletedID = id
			return nil
		},
	}

	svc := newTestService(&mockUserRepo{}, sessionRepo)

	if err := svc.Logout(context.Background(), "session-1"); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if deletedID != "session-1" {
		t.Errorf("deleted session = %q, want %q", deletedID, "session-1")
	}
}

// TestService_CurrentUser はセッションからユーザーが解決されることを検証する。
func TestService_CurrentUser(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.Session, error) {
			if id == "valid-session" {
				return &model.Session{ID: id, UserID: "user-1", ExpiresAt: time.Now().Add(time.Hour)}, nil
			}
			return nil, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFn: func(ctx context.Context, id string) (*model.User, error) {
			return &model.User{ID: id, Username: "alice"}, nil
		},
	}

	svc := newTestService(userRepo, sessionRepo)

	user, err := svc.CurrentUser(context.Background(), "valid-session")
	if err != nil {
		t.Fatalf("CurrentUser returned error: %v", err)
	}
	if user == nil || user.Username != "alice" {
		t.Fatalf("user = %v, want alice", user)
	}
}

// TestService_CurrentUser_AnonymousOrExpired は無効なセッションでnilが返ることを検証する。
func TestService_CurrentUser_AnonymousOrExpired(t *testing.T) {
	svc := newTestService(&mockUserRepo{}, &mockSessionRepo{})

	for _, sessionID := range []string{"", "expired-or-unknown"} {
		user, err := svc.CurrentUser(context.Background(), sessionID)
		if err != nil {
			t.Fatalf("CurrentUser(%q) returned error: %v", sessionID, err)
		}
		if user != nil {
			t.Errorf("CurrentUser(%q) = %v, want nil", sessionID, user)
		}
	}
}
