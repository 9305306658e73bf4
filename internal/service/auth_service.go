package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/aryamanr26/course-flow-hackathon/config"
	"github.com/aryamanr26/course-flow-hackathon/internal/dto"
	"github.com/aryamanr26/course-flow-hackathon/internal/model"
	"github.com/aryamanr26/course-flow-hackathon/internal/planner"
	"github.com/aryamanr26/course-flow-hackathon/internal/repository"
	"github.com/aryamanr26/course-flow-hackathon/pkg/jwt"
)

var (
	ErrInvalidCredentials = errors.New("学号或密码错误")
	ErrStudentNotFound    = errors.New("学生不存在")
	ErrInvalidToken       = errors.New("Token 无效或已过期")
	ErrTokenRevoked       = errors.New("Token 已被吊销")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	// Refresh 用 refresh token 换取新的 Token 对，旧 refresh token 随即吊销
	Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error)
	// Logout 吊销当前 access token，以及可选的 refresh token
	Logout(ctx context.Context, claims *jwt.Claims, refreshToken string) error
	Me(ctx context.Context, studentID string) (*dto.ProfileResponse, error)
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	tokens TokenStore
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例；tokens 可为 nil
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	tokens TokenStore,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		tokens: tokens,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	// 1. 查询学生
	student, err := s.repo.Student.GetByStudentNo(ctx, req.StudentNo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}

	// 2. 验证密码 (bcrypt)
	if err := bcrypt.CompareHashAndPassword([]byte(student.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	// 3. 生成 Token 对
	return s.issueTokens(student)
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenResponse, error) {
	claims, err := s.jwtMgr.ParseToken(refreshToken)
	if err != nil || claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrInvalidToken
	}

	if s.tokens != nil {
		revoked, err := s.tokens.IsBlacklisted(ctx, claims.ID)
		if err != nil {
			// 与 JWTAuth 一致：黑名单不可用时降级放行
			s.logger.Warn("查询 Token 黑名单失败，降级放行", zap.Error(err))
		} else if revoked {
			return nil, ErrTokenRevoked
		}
	}

	student, err := s.repo.Student.GetByID(ctx, claims.StudentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}

	resp, err := s.issueTokens(student)
	if err != nil {
		return nil, err
	}
	s.revoke(ctx, claims)
	return resp, nil
}

func (s *authService) Logout(ctx context.Context, claims *jwt.Claims, refreshToken string) error {
	if s.tokens == nil {
		return nil
	}
	if claims != nil {
		if err := s.tokens.BlacklistToken(ctx, claims.ID, claims.RemainingTTL()); err != nil {
			s.logger.Error("吊销 AccessToken 失败", zap.Error(err))
			return err
		}
	}
	if refreshToken != "" {
		rc, err := s.jwtMgr.ParseToken(refreshToken)
		if err != nil || rc.TokenType != jwt.TokenTypeRefresh {
			return nil
		}
		if claims != nil && rc.StudentID != claims.StudentID {
			return nil
		}
		if err := s.tokens.BlacklistToken(ctx, rc.ID, rc.RemainingTTL()); err != nil {
			s.logger.Error("吊销 RefreshToken 失败", zap.Error(err))
			return err
		}
	}
	return nil
}

func (s *authService) Me(ctx context.Context, studentID string) (*dto.ProfileResponse, error) {
	student, err := s.repo.Student.GetByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		s.logger.Error("查询学生失败", zap.Error(err))
		return nil, err
	}

	courses, err := s.repo.Student.ListCourses(ctx, studentID)
	if err != nil {
		s.logger.Error("查询修课记录失败", zap.Error(err))
		return nil, err
	}

	required := student.RequiredCredits
	if required == 0 {
		required = s.cfg.Planner.RequiredCredits
	}

	resp := &dto.ProfileResponse{
		StudentResponse: toStudentResponse(student),
		GPA:             student.GPA,
		TotalCredits:    student.TotalCredits,
		RequiredCredits: required,
		CreditProgress:  planner.CreditProgress(student.TotalCredits, required),
		Completed:       []dto.CompletedCourseResponse{},
		Current:         []dto.CurrentCourseResponse{},
	}
	for _, c := range courses {
		switch c.Status {
		case model.CourseStatusCompleted:
			resp.Completed = append(resp.Completed, dto.CompletedCourseResponse{
				Code: c.CourseCode, Name: c.CourseName, Grade: c.Grade, Term: c.Term, Credits: c.Credits,
			})
		case model.CourseStatusCurrent:
			resp.Current = append(resp.Current, dto.CurrentCourseResponse{
				Code: c.CourseCode, Name: c.CourseName, Credits: c.Credits,
			})
		}
	}
	return resp, nil
}

// ── 内部方法 ──

func (s *authService) issueTokens(student *model.Student) (*dto.TokenResponse, error) {
	accessToken, err := s.jwtMgr.GenerateAccessToken(student.StudentID, student.StudentNo)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	refreshToken, err := s.jwtMgr.GenerateRefreshToken(student.StudentID, student.StudentNo)
	if err != nil {
		s.logger.Error("生成 RefreshToken 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(s.jwtMgr.AccessTokenTTL().Seconds()),
		Student:      toStudentResponse(student),
	}, nil
}

// revoke 吊销失败只记录日志：新 Token 已签发
func (s *authService) revoke(ctx context.Context, claims *jwt.Claims) {
	if s.tokens == nil {
		return
	}
	if err := s.tokens.BlacklistToken(ctx, claims.ID, claims.RemainingTTL()); err != nil {
		s.logger.Warn("吊销旧 RefreshToken 失败", zap.Error(err))
	}
}

func toStudentResponse(s *model.Student) dto.StudentResponse {
	return dto.StudentResponse{
		ID:        s.StudentID,
		StudentNo: s.StudentNo,
		Name:      s.Name,
		Email:     s.Email,
		Year:      s.Year,
		Majors:    append([]string{}, s.Majors...),
		Minors:    append([]string{}, s.Minors...),
	}
}
