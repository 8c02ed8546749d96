package user

import (
	"bufio"
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadheryan/crm/cmd/config"
	"github.com/muhammadheryan/crm/constant"
	"github.com/muhammadheryan/crm/model"
	redisrepo "github.com/muhammadheryan/crm/repository/redis"
	userrepo "github.com/muhammadheryan/crm/repository/user"
	"github.com/muhammadheryan/crm/thirdparty/objectstore"
	"github.com/muhammadheryan/crm/thirdparty/rabbitmq"
	"github.com/muhammadheryan/crm/utils/errors"
	"github.com/muhammadheryan/crm/utils/logger"
	"github.com/muhammadheryan/crm/utils/token"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type UserApp interface {
	Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (model.Identity, error)
	GetProfile(ctx context.Context, identity model.Identity) (*model.UserResponse, error)
	UpdateProfile(ctx context.Context, identity model.Identity, req *model.UpdateProfileRequest) (*model.UserResponse, error)
	UploadProfilePicture(ctx context.Context, identity model.Identity, file io.Reader, size int64) (*model.ProfilePictureResponse, error)
	ProfilePictureURL(ctx context.Context, identity model.Identity) (string, error)
}

type UserAppImpl struct {
	config    *config.Config
	userRepo  userrepo.UserRepository
	redisRepo redisrepo.Repository
	tokens    *token.Service
	store     objectstore.ObjectStore
	cleanup   rabbitmq.CleanupScheduler
}

type Option func(*UserAppImpl)

// WithPictureCleanup schedules deletion of a profile picture once it has been
// replaced and its last download link has expired.
func WithPictureCleanup(cleanup rabbitmq.CleanupScheduler) Option {
	return func(s *UserAppImpl) { s.cleanup = cleanup }
}

// NewUserApp wires the account service. store may be nil, in which case
// profile picture operations answer ErrUpstreamUnavailable.
func NewUserApp(config *config.Config, userRepo userrepo.UserRepository, redisRepo redisrepo.Repository, tokens *token.Service, store objectstore.ObjectStore, opts ...Option) UserApp {
	s := &UserAppImpl{
		config:    config,
		userRepo:  userRepo,
		redisRepo: redisRepo,
		tokens:    tokens,
		store:     store,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const profilePicturePrefix = "profile-pictures"

var pictureExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

func (s *UserAppImpl) Signup(ctx context.Context, req *model.SignupRequest) (*model.AuthResponse, error) {
	email := normalizeEmail(req.Email)

	role := constant.RoleEmployee
	if req.Role != "" {
		parsed, err := constant.ParseRole(req.Role)
		if err != nil {
			return nil, errors.SetValidationError(map[string]string{"role": "must be one of employee admin"})
		}
		role = parsed
	}
	if role.IsAdmin() && !s.config.Auth.AllowAdminSignup {
		logger.Info("[Signup] admin signup refused", zap.String("email", email))
		return nil, errors.SetCustomError(constant.ErrForbidden)
	}

	existingUser, err := s.userRepo.Get(ctx, &model.UserFilter{Email: email})
	if err != nil {
		logger.Error("[Signup] err userRepo.Get email", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if existingUser != nil {
		return nil, errors.SetCustomError(constant.ErrCredentialExists)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("[Signup] err bcrypt.GenerateFromPassword", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	userEntity, err := s.userRepo.Create(ctx, &model.UserEntity{
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         role,
		CreatedAt:    time.Now(),
	})
	if err != nil {
		// lost the race against a concurrent signup with the same email
		if stderrors.Is(err, userrepo.ErrDuplicateEmail) {
			return nil, errors.SetCustomError(constant.ErrCredentialExists)
		}
		logger.Error("[Signup] err userRepo.Create", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	tokenString, err := s.tokens.Issue(userEntity.ID, userEntity.Role)
	if err != nil {
		logger.Error("[Signup] err tokens.Issue", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.AuthResponse{
		Message: "User created successfully",
		Token:   tokenString,
		User:    model.NewUserResponse(userEntity),
	}, nil
}

func (s *UserAppImpl) Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error) {
	email := normalizeEmail(req.Email)
	attemptsKey := loginAttemptsKey(email)

	if s.config.Auth.MaxLoginAttempts > 0 {
		count, err := s.redisRepo.Get(ctx, attemptsKey)
		if err != nil {
			// throttling is best effort, a redis outage must not lock everyone out
			logger.Warn("[Login] err redisRepo.Get", zap.String("error", err.Error()))
		} else if exceeded(count, s.config.Auth.MaxLoginAttempts) {
			return nil, errors.SetCustomError(constant.ErrTooManyAttempts)
		}
	}

	user, err := s.userRepo.Get(ctx, &model.UserFilter{Email: email})
	if err != nil {
		logger.Error("[Login] err userRepo.Get", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	hash := dummyPasswordHash()
	if user != nil {
		hash = []byte(user.PasswordHash)
	}
	if compareHash(hash, []byte(req.Password)) != nil || user == nil {
		s.recordFailedLogin(ctx, attemptsKey)
		return nil, errors.SetCustomError(constant.ErrInvalidCredentials)
	}

	if err := s.redisRepo.Delete(ctx, attemptsKey); err != nil {
		logger.Warn("[Login] err redisRepo.Delete", zap.String("error", err.Error()))
	}

	tokenString, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		logger.Error("[Login] err tokens.Issue", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}

	return &model.AuthResponse{
		Message: "Login successful",
		Token:   tokenString,
		User:    model.NewUserResponse(user),
	}, nil
}

var (
	compareHash = bcrypt.CompareHashAndPassword

	dummyHashOnce sync.Once
	dummyHash     []byte
)

// dummyPasswordHash is compared against for unknown emails so the response
// takes as long as a wrong password.
func dummyPasswordHash() []byte {
	dummyHashOnce.Do(func() {
		dummyHash, _ = bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcrypt.DefaultCost)
	})
	return dummyHash
}

// ValidateToken resolves a bearer token to the caller's identity. Tokens are
// self-contained; there is no server-side session to consult.
func (s *UserAppImpl) ValidateToken(ctx context.Context, tokenString string) (model.Identity, error) {
	identity, err := s.tokens.Verify(tokenString)
	if err != nil {
		return model.Identity{}, err
	}
	return identity, nil
}

func (s *UserAppImpl) GetProfile(ctx context.Context, identity model.Identity) (*model.UserResponse, error) {
	user, err := s.getUser(ctx, "GetProfile", identity.UserID)
	if err != nil {
		return nil, err
	}
	res := model.NewUserResponse(user)
	return &res, nil
}

func (s *UserAppImpl) UpdateProfile(ctx context.Context, identity model.Identity, req *model.UpdateProfileRequest) (*model.UserResponse, error) {
	update := &model.ProfileUpdate{}
	invalid := make(map[string]string)

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			invalid["name"] = "is required"
		}
		update.Name = &name
	}
	if req.Phone != nil {
		phone := strings.TrimSpace(*req.Phone)
		update.Phone = &phone
	}
	if req.Location != nil {
		location := strings.TrimSpace(*req.Location)
		update.Location = &location
	}
	if req.MemberSince != nil {
		update.SetMemberSince = true
		if strings.TrimSpace(*req.MemberSince) != "" {
			since, err := model.ParseDate(*req.MemberSince)
			if err != nil {
				invalid["memberSince"] = "must be a date (YYYY-MM-DD)"
			} else {
				update.MemberSince = &since
			}
		}
	}
	if len(invalid) > 0 {
		return nil, errors.SetValidationError(invalid)
	}
	if update.Name == nil && update.Phone == nil && update.Location == nil && !update.SetMemberSince {
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}

	if err := s.userRepo.UpdateProfile(ctx, identity.UserID, update); err != nil {
		return nil, s.mapUserWriteErr("UpdateProfile", err)
	}

	return s.GetProfile(ctx, identity)
}

// UploadProfilePicture stores an image for the caller and points the profile
// at it. The content type is sniffed from the bytes, not taken from the client.
func (s *UserAppImpl) UploadProfilePicture(ctx context.Context, identity model.Identity, file io.Reader, size int64) (*model.ProfilePictureResponse, error) {
	if s.store == nil {
		return nil, errors.SetCustomError(constant.ErrUpstreamUnavailable)
	}
	if file == nil || size <= 0 {
		return nil, errors.SetValidationError(map[string]string{"profilePicture": "is required"})
	}
	if size > s.config.Storage.MaxUploadBytes {
		return nil, errors.SetValidationError(map[string]string{
			"profilePicture": fmt.Sprintf("must be at most %d bytes", s.config.Storage.MaxUploadBytes),
		})
	}

	br := bufio.NewReaderSize(file, 512)
	head, err := br.Peek(512)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		logger.Error("[UploadProfilePicture] err read upload", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInvalidRequest)
	}
	contentType := http.DetectContentType(head)
	ext, ok := pictureExtensions[contentType]
	if !ok {
		return nil, errors.SetValidationError(map[string]string{"profilePicture": "only image files are allowed"})
	}

	var previous string
	if s.cleanup != nil {
		user, err := s.getUser(ctx, "UploadProfilePicture", identity.UserID)
		if err != nil {
			return nil, err
		}
		previous = user.ProfilePicture
	}

	key := fmt.Sprintf("%s/%d/%s%s", profilePicturePrefix, identity.UserID, uuid.NewString(), ext)
	if err := s.store.Put(ctx, key, br, size, contentType); err != nil {
		logger.Error("[UploadProfilePicture] err store.Put", zap.String("error", err.Error()), zap.String("key", key))
		return nil, errors.SetCustomError(constant.ErrUpstreamUnavailable)
	}

	if err := s.userRepo.UpdateProfile(ctx, identity.UserID, &model.ProfileUpdate{ProfilePicture: &key}); err != nil {
		return nil, s.mapUserWriteErr("UploadProfilePicture", err)
	}

	if previous != "" {
		msg := rabbitmq.PictureCleanupMessage{UserID: identity.UserID, Key: previous, ReplacedAt: time.Now()}
		// links handed out for the old key stay valid until they expire
		if err := s.cleanup.SchedulePictureCleanup(ctx, msg, s.config.Storage.PresignExpiry); err != nil {
			logger.Warn("[UploadProfilePicture] err schedule cleanup", zap.String("error", err.Error()), zap.String("key", previous))
		}
	}

	return &model.ProfilePictureResponse{
		Message:        "Profile picture updated successfully",
		ProfilePicture: key,
	}, nil
}

func (s *UserAppImpl) ProfilePictureURL(ctx context.Context, identity model.Identity) (string, error) {
	user, err := s.getUser(ctx, "ProfilePictureURL", identity.UserID)
	if err != nil {
		return "", err
	}
	if user.ProfilePicture == "" {
		return "", errors.SetCustomError(constant.ErrNotFound)
	}
	if s.store == nil {
		return "", errors.SetCustomError(constant.ErrUpstreamUnavailable)
	}

	url, err := s.store.PresignGet(ctx, user.ProfilePicture, s.config.Storage.PresignExpiry)
	if err != nil {
		logger.Error("[ProfilePictureURL] err store.PresignGet", zap.String("error", err.Error()))
		return "", errors.SetCustomError(constant.ErrUpstreamUnavailable)
	}
	return url, nil
}

func (s *UserAppImpl) getUser(ctx context.Context, op string, id uint64) (*model.UserEntity, error) {
	user, err := s.userRepo.Get(ctx, &model.UserFilter{ID: id})
	if err != nil {
		logger.Error("["+op+"] err userRepo.Get", zap.String("error", err.Error()))
		return nil, errors.SetCustomError(constant.ErrInternal)
	}
	if user == nil {
		return nil, errors.SetCustomError(constant.ErrNotFound)
	}
	return user, nil
}

func (s *UserAppImpl) mapUserWriteErr(op string, err error) error {
	if stderrors.Is(err, sql.ErrNoRows) {
		return errors.SetCustomError(constant.ErrNotFound)
	}
	logger.Error("["+op+"] err userRepo.UpdateProfile", zap.String("error", err.Error()))
	return errors.SetCustomError(constant.ErrInternal)
}

func (s *UserAppImpl) recordFailedLogin(ctx context.Context, key string) {
	if s.config.Auth.MaxLoginAttempts <= 0 {
		return
	}
	if _, err := s.redisRepo.IncrWithTTL(ctx, key, s.config.Auth.LoginAttemptWindow); err != nil {
		logger.Warn("[Login] err redisRepo.IncrWithTTL", zap.String("error", err.Error()))
	}
}

func loginAttemptsKey(email string) string {
	return "login_attempts:" + email
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// exceeded reports whether a stored attempt counter reached max.
func exceeded(count string, max int64) bool {
	if count == "" {
		return false
	}
	n, err := strconv.ParseInt(count, 10, 64)
	return err == nil && n >= max
}

// PictureCleanupHandler deletes replaced pictures. A key that is again some
// user's current picture, or that is outside the picture prefix, is skipped.
func PictureCleanupHandler(userRepo userrepo.UserRepository, store objectstore.ObjectStore) rabbitmq.Handler {
	return func(ctx context.Context, msg rabbitmq.PictureCleanupMessage) error {
		if !strings.HasPrefix(msg.Key, fmt.Sprintf("%s/%d/", profilePicturePrefix, msg.UserID)) {
			logger.Warn("[PictureCleanup] skip foreign key", zap.String("key", msg.Key), zap.Uint64("user_id", msg.UserID))
			return nil
		}

		user, err := userRepo.Get(ctx, &model.UserFilter{ID: msg.UserID})
		if err != nil {
			return fmt.Errorf("get user %d: %w", msg.UserID, err)
		}
		if user != nil && user.ProfilePicture == msg.Key {
			return nil
		}

		return store.Delete(ctx, msg.Key)
	}
}
