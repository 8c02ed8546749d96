package user_test

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	appuser "github.com/muhammadheryan/crm/application/user"
	"github.com/muhammadheryan/crm/cmd/config"
	"github.com/muhammadheryan/crm/constant"
	redismocks "github.com/muhammadheryan/crm/mocks/repository/redis"
	usermocks "github.com/muhammadheryan/crm/mocks/repository/user"
	storemocks "github.com/muhammadheryan/crm/mocks/thirdparty/objectstore"
	mqmocks "github.com/muhammadheryan/crm/mocks/thirdparty/rabbitmq"
	"github.com/muhammadheryan/crm/model"
	userrepo "github.com/muhammadheryan/crm/repository/user"
	"github.com/muhammadheryan/crm/thirdparty/rabbitmq"
	cerr "github.com/muhammadheryan/crm/utils/errors"
	"github.com/muhammadheryan/crm/utils/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:          testSecret,
			JWTExpiration:      time.Hour,
			MaxLoginAttempts:   5,
			LoginAttemptWindow: 15 * time.Minute,
		},
		Storage: config.StorageConfig{
			MaxUploadBytes: 1024,
			PresignExpiry:  15 * time.Minute,
		},
	}
}

func hash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func checkErrCode(t *testing.T, err error, want constant.ErrorType) {
	t.Helper()
	var ce cerr.CustomError
	if !errors.As(err, &ce) {
		t.Fatalf("error type = %T, want CustomError", err)
	}
	if ce.ErrorCode() != constant.ErrorTypeCode[want] {
		t.Fatalf("error code = %s, want %s", ce.ErrorCode(), constant.ErrorTypeCode[want])
	}
}

func TestUserApp_Signup(t *testing.T) {
	type fields struct {
		config    *config.Config
		userRepo  *usermocks.UserRepository
		redisRepo *redismocks.RedisRepository
	}
	type args struct {
		ctx context.Context
		req *model.SignupRequest
	}
	allowAdmin := testConfig()
	allowAdmin.Auth.AllowAdminSignup = true

	tests := []struct {
		name     string
		fields   fields
		args     args
		mockCall func(f fields)
		wantRole constant.Role
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: signup defaults to employee",
			fields: fields{
				config:    testConfig(),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.SignupRequest{Name: " Test User ", Email: "Test@Example.com", Password: "password123"},
			},
			mockCall: func(f fields) {
				f.userRepo.
					On("Get", mock.Anything, &model.UserFilter{Email: "test@example.com"}).
					Return(nil, nil).
					Once()
				f.userRepo.
					On("Create", mock.Anything, mock.MatchedBy(func(ent *model.UserEntity) bool {
						return ent.Name == "Test User" &&
							ent.Email == "test@example.com" &&
							ent.Role == constant.RoleEmployee &&
							bcrypt.CompareHashAndPassword([]byte(ent.PasswordHash), []byte("password123")) == nil
					})).
					Return(func(_ context.Context, ent *model.UserEntity) (*model.UserEntity, error) {
						ent.ID = 1
						return ent, nil
					}).
					Once()
			},
			wantRole: constant.RoleEmployee,
		},
		{
			name: "success: admin signup when allowed",
			fields: fields{
				config:    allowAdmin,
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.SignupRequest{Name: "Boss", Email: "boss@example.com", Password: "password123", Role: "admin"},
			},
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Email: "boss@example.com"}).Return(nil, nil).Once()
				f.userRepo.
					On("Create", mock.Anything, mock.MatchedBy(func(ent *model.UserEntity) bool {
						return ent.Role == constant.RoleAdmin
					})).
					Return(func(_ context.Context, ent *model.UserEntity) (*model.UserEntity, error) {
						ent.ID = 2
						return ent, nil
					}).
					Once()
			},
			wantRole: constant.RoleAdmin,
		},
		{
			name: "error: admin signup disabled",
			fields: fields{
				config:    testConfig(),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.SignupRequest{Name: "Boss", Email: "boss@example.com", Password: "password123", Role: "admin"},
			},
			mockCall: func(f fields) {},
			wantErr:  true,
			errCode:  constant.ErrForbidden,
		},
		{
			name: "error: email already exists",
			fields: fields{
				config:    testConfig(),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.SignupRequest{Name: "Test User", Email: "existing@example.com", Password: "password123"},
			},
			mockCall: func(f fields) {
				f.userRepo.
					On("Get", mock.Anything, &model.UserFilter{Email: "existing@example.com"}).
					Return(&model.UserEntity{ID: 1, Email: "existing@example.com"}, nil).
					Once()
			},
			wantErr: true,
			errCode: constant.ErrCredentialExists,
		},
		{
			name: "error: unique index rejects concurrent signup",
			fields: fields{
				config:    testConfig(),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.SignupRequest{Name: "Test User", Email: "race@example.com", Password: "password123"},
			},
			mockCall: func(f fields) {
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Email: "race@example.com"}).Return(nil, nil).Once()
				f.userRepo.On("Create", mock.Anything, mock.Anything).Return(nil, userrepo.ErrDuplicateEmail).Once()
			},
			wantErr: true,
			errCode: constant.ErrCredentialExists,
		},
		{
			name: "error: repository Get email returns error",
			fields: fields{
				config:    testConfig(),
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			},
			args: args{
				ctx: context.Background(),
				req: &model.SignupRequest{Name: "Test User", Email: "test@example.com", Password: "password123"},
			},
			mockCall: func(f fields) {
				f.userRepo.
					On("Get", mock.Anything, &model.UserFilter{Email: "test@example.com"}).
					Return(nil, errors.New("db error")).
					Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			tt.mockCall(tt.fields)
			tokens := token.NewService(testSecret, time.Hour)
			app := appuser.NewUserApp(tt.fields.config, tt.fields.userRepo, tt.fields.redisRepo, tokens, nil)

			got, err := app.Signup(tt.args.ctx, tt.args.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Signup() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				checkErrCode(t, err, tt.errCode)
				return
			}

			assert.Equal(t, "User created successfully", got.Message)
			assert.Equal(t, tt.wantRole, got.User.Role)
			identity, err := tokens.Verify(got.Token)
			require.NoError(t, err)
			assert.Equal(t, got.User.ID, identity.UserID)
			assert.Equal(t, tt.wantRole, identity.Role)
		})
	}
}

func TestUserApp_Login(t *testing.T) {
	type fields struct {
		userRepo  *usermocks.UserRepository
		redisRepo *redismocks.RedisRepository
	}
	stored := &model.UserEntity{
		ID:           7,
		Name:         "Test User",
		Email:        "test@example.com",
		Role:         constant.RoleEmployee,
		PasswordHash: hash(t, "password123"),
		CreatedAt:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	const key = "login_attempts:test@example.com"

	tests := []struct {
		name     string
		req      *model.LoginRequest
		mockCall func(f fields)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: login resets the attempt counter",
			req:  &model.LoginRequest{Email: "TEST@example.com", Password: "password123"},
			mockCall: func(f fields) {
				f.redisRepo.On("Get", mock.Anything, key).Return("2", nil).Once()
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Email: "test@example.com"}).Return(stored, nil).Once()
				f.redisRepo.On("Delete", mock.Anything, key).Return(nil).Once()
			},
		},
		{
			name: "success: redis failure does not block login",
			req:  &model.LoginRequest{Email: "test@example.com", Password: "password123"},
			mockCall: func(f fields) {
				f.redisRepo.On("Get", mock.Anything, key).Return("", errors.New("redis down")).Once()
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Email: "test@example.com"}).Return(stored, nil).Once()
				f.redisRepo.On("Delete", mock.Anything, key).Return(errors.New("redis down")).Once()
			},
		},
		{
			name: "error: wrong password counts an attempt",
			req:  &model.LoginRequest{Email: "test@example.com", Password: "wrong"},
			mockCall: func(f fields) {
				f.redisRepo.On("Get", mock.Anything, key).Return("", nil).Once()
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Email: "test@example.com"}).Return(stored, nil).Once()
				f.redisRepo.On("IncrWithTTL", mock.Anything, key, 15*time.Minute).Return(int64(1), nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInvalidCredentials,
		},
		{
			name: "error: unknown email looks like a wrong password",
			req:  &model.LoginRequest{Email: "nobody@example.com", Password: "password123"},
			mockCall: func(f fields) {
				f.redisRepo.On("Get", mock.Anything, "login_attempts:nobody@example.com").Return("", nil).Once()
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Email: "nobody@example.com"}).Return(nil, nil).Once()
				f.redisRepo.On("IncrWithTTL", mock.Anything, "login_attempts:nobody@example.com", 15*time.Minute).Return(int64(1), nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrInvalidCredentials,
		},
		{
			name: "error: too many attempts short-circuits",
			req:  &model.LoginRequest{Email: "test@example.com", Password: "password123"},
			mockCall: func(f fields) {
				f.redisRepo.On("Get", mock.Anything, key).Return("5", nil).Once()
			},
			wantErr: true,
			errCode: constant.ErrTooManyAttempts,
		},
		{
			name: "error: repository Get returns error",
			req:  &model.LoginRequest{Email: "test@example.com", Password: "password123"},
			mockCall: func(f fields) {
				f.redisRepo.On("Get", mock.Anything, key).Return("", nil).Once()
				f.userRepo.On("Get", mock.Anything, &model.UserFilter{Email: "test@example.com"}).Return(nil, errors.New("db error")).Once()
			},
			wantErr: true,
			errCode: constant.ErrInternal,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			f := fields{
				userRepo:  usermocks.NewUserRepository(t),
				redisRepo: redismocks.NewRedisRepository(t),
			}
			tt.mockCall(f)
			tokens := token.NewService(testSecret, time.Hour)
			app := appuser.NewUserApp(testConfig(), f.userRepo, f.redisRepo, tokens, nil)

			got, err := app.Login(context.Background(), tt.req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Login() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				checkErrCode(t, err, tt.errCode)
				f.userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
				return
			}

			assert.Equal(t, uint64(7), got.User.ID)
			assert.Equal(t, stored.CreatedAt, got.User.MemberSince)
			identity, err := app.ValidateToken(context.Background(), got.Token)
			require.NoError(t, err)
			assert.Equal(t, model.Identity{UserID: 7, Role: constant.RoleEmployee}, identity)
		})
	}
}

func TestUserApp_Login_UnknownEmailStillComparesHash(t *testing.T) {
	var compared [][]byte
	restore := appuser.SetCompareHash(func(hashed, password []byte) error {
		compared = append(compared, hashed)
		return nil
	})
	defer restore()

	userRepo := usermocks.NewUserRepository(t)
	redisRepo := redismocks.NewRedisRepository(t)
	const key = "login_attempts:nobody@example.com"
	redisRepo.On("Get", mock.Anything, key).Return("", nil).Once()
	userRepo.On("Get", mock.Anything, &model.UserFilter{Email: "nobody@example.com"}).Return(nil, nil).Once()
	redisRepo.On("IncrWithTTL", mock.Anything, key, 15*time.Minute).Return(int64(1), nil).Once()

	app := appuser.NewUserApp(testConfig(), userRepo, redisRepo, token.NewService(testSecret, time.Hour), nil)
	got, err := app.Login(context.Background(), &model.LoginRequest{Email: "nobody@example.com", Password: "password123"})

	assert.Nil(t, got)
	checkErrCode(t, err, constant.ErrInvalidCredentials)
	require.Len(t, compared, 1)
	_, costErr := bcrypt.Cost(compared[0])
	assert.NoError(t, costErr, "compared against a real bcrypt hash")
}

func TestUserApp_ValidateToken(t *testing.T) {
	tokens := token.NewService(testSecret, time.Hour)
	app := appuser.NewUserApp(testConfig(), usermocks.NewUserRepository(t), redismocks.NewRedisRepository(t), tokens, nil)

	valid, err := tokens.Issue(3, constant.RoleAdmin)
	require.NoError(t, err)
	other, err := token.NewService("other-secret", time.Hour).Issue(3, constant.RoleAdmin)
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		want    model.Identity
		wantErr bool
	}{
		{name: "success: valid token", token: valid, want: model.Identity{UserID: 3, Role: constant.RoleAdmin}},
		{name: "error: foreign signature", token: other, wantErr: true},
		{name: "error: garbage", token: "not-a-token", wantErr: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := app.ValidateToken(context.Background(), tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, token.ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserApp_UpdateProfile(t *testing.T) {
	identity := model.Identity{UserID: 7, Role: constant.RoleEmployee}
	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name     string
		req      *model.UpdateProfileRequest
		mockCall func(repo *usermocks.UserRepository)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: partial update then re-read",
			req:  &model.UpdateProfileRequest{Location: strPtr(" Jakarta "), MemberSince: strPtr("2023-02-01")},
			mockCall: func(repo *usermocks.UserRepository) {
				repo.On("UpdateProfile", mock.Anything, uint64(7), mock.MatchedBy(func(u *model.ProfileUpdate) bool {
					return u.Name == nil && u.Phone == nil &&
						u.Location != nil && *u.Location == "Jakarta" &&
						u.SetMemberSince && u.MemberSince != nil && u.MemberSince.Format(constant.DateLayout) == "2023-02-01"
				})).Return(nil).Once()
				repo.On("Get", mock.Anything, &model.UserFilter{ID: 7}).Return(&model.UserEntity{ID: 7, Location: "Jakarta"}, nil).Once()
			},
		},
		{
			name:     "error: nothing to update",
			req:      &model.UpdateProfileRequest{},
			mockCall: func(repo *usermocks.UserRepository) {},
			wantErr:  true,
			errCode:  constant.ErrInvalidRequest,
		},
		{
			name:     "error: blank name and bad date",
			req:      &model.UpdateProfileRequest{Name: strPtr("  "), MemberSince: strPtr("yesterday")},
			mockCall: func(repo *usermocks.UserRepository) {},
			wantErr:  true,
			errCode:  constant.ErrValidation,
		},
		{
			name: "error: user vanished",
			req:  &model.UpdateProfileRequest{Phone: strPtr("0812")},
			mockCall: func(repo *usermocks.UserRepository) {
				repo.On("UpdateProfile", mock.Anything, uint64(7), mock.Anything).Return(sql.ErrNoRows).Once()
			},
			wantErr: true,
			errCode: constant.ErrNotFound,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			repo := usermocks.NewUserRepository(t)
			tt.mockCall(repo)
			app := appuser.NewUserApp(testConfig(), repo, redismocks.NewRedisRepository(t), token.NewService(testSecret, time.Hour), nil)

			got, err := app.UpdateProfile(context.Background(), identity, tt.req)
			if tt.wantErr {
				checkErrCode(t, err, tt.errCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Jakarta", got.Location)
		})
	}
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUserApp_UploadProfilePicture(t *testing.T) {
	identity := model.Identity{UserID: 7, Role: constant.RoleEmployee}

	tests := []struct {
		name     string
		body     []byte
		noStore  bool
		mockCall func(repo *usermocks.UserRepository, store *storemocks.ObjectStore)
		wantErr  bool
		errCode  constant.ErrorType
	}{
		{
			name: "success: png stored under the user's prefix",
			body: pngHeader,
			mockCall: func(repo *usermocks.UserRepository, store *storemocks.ObjectStore) {
				store.On("Put", mock.Anything, mock.MatchedBy(func(key string) bool {
					return strings.HasPrefix(key, "profile-pictures/7/") && strings.HasSuffix(key, ".png")
				}), mock.Anything, int64(len(pngHeader)), "image/png").Return(nil).Once()
				repo.On("UpdateProfile", mock.Anything, uint64(7), mock.MatchedBy(func(u *model.ProfileUpdate) bool {
					return u.ProfilePicture != nil && strings.HasPrefix(*u.ProfilePicture, "profile-pictures/7/")
				})).Return(nil).Once()
			},
		},
		{
			name:     "error: not an image",
			body:     []byte("just some text"),
			mockCall: func(repo *usermocks.UserRepository, store *storemocks.ObjectStore) {},
			wantErr:  true,
			errCode:  constant.ErrValidation,
		},
		{
			name:     "error: larger than the upload limit",
			body:     append(append([]byte{}, pngHeader...), make([]byte, 2048)...),
			mockCall: func(repo *usermocks.UserRepository, store *storemocks.ObjectStore) {},
			wantErr:  true,
			errCode:  constant.ErrValidation,
		},
		{
			name: "error: object storage rejects the upload",
			body: pngHeader,
			mockCall: func(repo *usermocks.UserRepository, store *storemocks.ObjectStore) {
				store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "image/png").Return(errors.New("s3 down")).Once()
			},
			wantErr: true,
			errCode: constant.ErrUpstreamUnavailable,
		},
		{
			name:     "error: storage not configured",
			body:     pngHeader,
			noStore:  true,
			mockCall: func(repo *usermocks.UserRepository, store *storemocks.ObjectStore) {},
			wantErr:  true,
			errCode:  constant.ErrUpstreamUnavailable,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			repo := usermocks.NewUserRepository(t)
			store := storemocks.NewObjectStore(t)
			tt.mockCall(repo, store)

			var app appuser.UserApp
			if tt.noStore {
				app = appuser.NewUserApp(testConfig(), repo, redismocks.NewRedisRepository(t), token.NewService(testSecret, time.Hour), nil)
			} else {
				app = appuser.NewUserApp(testConfig(), repo, redismocks.NewRedisRepository(t), token.NewService(testSecret, time.Hour), store)
			}

			got, err := app.UploadProfilePicture(context.Background(), identity, bytes.NewReader(tt.body), int64(len(tt.body)))
			if tt.wantErr {
				checkErrCode(t, err, tt.errCode)
				return
			}
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(got.ProfilePicture, "profile-pictures/7/"))
		})
	}
}

func TestUserApp_UploadProfilePicture_SchedulesCleanup(t *testing.T) {
	identity := model.Identity{UserID: 7, Role: constant.RoleEmployee}

	tests := []struct {
		name         string
		previous     string
		scheduleErr  error
		wantSchedule bool
	}{
		{name: "previous picture is scheduled", previous: "profile-pictures/7/old.png", wantSchedule: true},
		{name: "first picture schedules nothing"},
		{name: "schedule failure does not fail the upload", previous: "profile-pictures/7/old.png", scheduleErr: errors.New("broker down"), wantSchedule: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := usermocks.NewUserRepository(t)
			store := storemocks.NewObjectStore(t)
			sched := mqmocks.NewCleanupScheduler(t)

			repo.On("Get", mock.Anything, &model.UserFilter{ID: 7}).Return(&model.UserEntity{ID: 7, ProfilePicture: tt.previous}, nil).Once()
			store.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, "image/png").Return(nil).Once()
			repo.On("UpdateProfile", mock.Anything, uint64(7), mock.Anything).Return(nil).Once()
			if tt.wantSchedule {
				sched.On("SchedulePictureCleanup", mock.Anything, mock.MatchedBy(func(m rabbitmq.PictureCleanupMessage) bool {
					return m.UserID == 7 && m.Key == tt.previous && !m.ReplacedAt.IsZero()
				}), 15*time.Minute).Return(tt.scheduleErr).Once()
			}

			app := appuser.NewUserApp(testConfig(), repo, redismocks.NewRedisRepository(t), token.NewService(testSecret, time.Hour), store,
				appuser.WithPictureCleanup(sched))
			got, err := app.UploadProfilePicture(context.Background(), identity, bytes.NewReader(pngHeader), int64(len(pngHeader)))

			require.NoError(t, err)
			assert.NotEqual(t, tt.previous, got.ProfilePicture)
		})
	}
}

func TestPictureCleanupHandler(t *testing.T) {
	tests := []struct {
		name     string
		msg      rabbitmq.PictureCleanupMessage
		mockCall func(repo *usermocks.UserRepository, store *storemocks.ObjectStore)
		wantErr  bool
	}{
		{
			name: "replaced picture is deleted",
			msg:  rabbitmq.PictureCleanupMessage{UserID: 7, Key: "profile-pictures/7/old.png"},
			mockCall: func(repo *usermocks.UserRepository, store *storemocks.ObjectStore) {
				repo.On("Get", mock.Anything, &model.UserFilter{ID: 7}).Return(&model.UserEntity{ID: 7, ProfilePicture: "profile-pictures/7/new.png"}, nil).Once()
				store.On("Delete", mock.Anything, "profile-pictures/7/old.png").Return(nil).Once()
			},
		},
		{
			name: "current picture is kept",
			msg:  rabbitmq.PictureCleanupMessage{UserID: 7, Key: "profile-pictures/7/new.png"},
			mockCall: func(repo *usermocks.UserRepository, store *storemocks.ObjectStore) {
				repo.On("Get", mock.Anything, &model.UserFilter{ID: 7}).Return(&model.UserEntity{ID: 7, ProfilePicture: "profile-pictures/7/new.png"}, nil).Once()
			},
		},
		{
			name:     "key of another user is skipped",
			msg:      rabbitmq.PictureCleanupMessage{UserID: 7, Key: "profile-pictures/8/a.png"},
			mockCall: func(repo *usermocks.UserRepository, store *storemocks.ObjectStore) {},
		},
		{
			name: "deleted user still gets cleaned up",
			msg:  rabbitmq.PictureCleanupMessage{UserID: 7, Key: "profile-pictures/7/old.png"},
			mockCall: func(repo *usermocks.UserRepository, store *storemocks.ObjectStore) {
				repo.On("Get", mock.Anything, &model.UserFilter{ID: 7}).Return(nil, nil).Once()
				store.On("Delete", mock.Anything, "profile-pictures/7/old.png").Return(nil).Once()
			},
		},
		{
			name: "lookup failure is retried",
			msg:  rabbitmq.PictureCleanupMessage{UserID: 7, Key: "profile-pictures/7/old.png"},
			mockCall: func(repo *usermocks.UserRepository, store *storemocks.ObjectStore) {
				repo.On("Get", mock.Anything, &model.UserFilter{ID: 7}).Return(nil, errors.New("db down")).Once()
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := usermocks.NewUserRepository(t)
			store := storemocks.NewObjectStore(t)
			tt.mockCall(repo, store)

			err := appuser.PictureCleanupHandler(repo, store)(context.Background(), tt.msg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestUserApp_ProfilePictureURL(t *testing.T) {
	identity := model.Identity{UserID: 7, Role: constant.RoleEmployee}

	t.Run("success: presigned url", func(t *testing.T) {
		repo := usermocks.NewUserRepository(t)
		store := storemocks.NewObjectStore(t)
		repo.On("Get", mock.Anything, &model.UserFilter{ID: 7}).Return(&model.UserEntity{ID: 7, ProfilePicture: "profile-pictures/7/a.png"}, nil).Once()
		store.On("PresignGet", mock.Anything, "profile-pictures/7/a.png", 15*time.Minute).Return("https://s3.local/a.png?sig", nil).Once()

		app := appuser.NewUserApp(testConfig(), repo, redismocks.NewRedisRepository(t), token.NewService(testSecret, time.Hour), store)
		got, err := app.ProfilePictureURL(context.Background(), identity)
		require.NoError(t, err)
		assert.Equal(t, "https://s3.local/a.png?sig", got)
	})

	t.Run("error: no picture yet", func(t *testing.T) {
		repo := usermocks.NewUserRepository(t)
		repo.On("Get", mock.Anything, &model.UserFilter{ID: 7}).Return(&model.UserEntity{ID: 7}, nil).Once()

		app := appuser.NewUserApp(testConfig(), repo, redismocks.NewRedisRepository(t), token.NewService(testSecret, time.Hour), storemocks.NewObjectStore(t))
		_, err := app.ProfilePictureURL(context.Background(), identity)
		checkErrCode(t, err, constant.ErrNotFound)
	})
}
