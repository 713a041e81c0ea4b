package logic

import (
	"context"
	"errors"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	usersgorm "github.com/ticketdesk/portal/internal/infra/persistence/gorm/users"
	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

type AuthLoginLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAuthLoginLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AuthLoginLogic {
	return &AuthLoginLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AuthLoginLogic) AuthLogin(req *types.AuthLoginRequest, ip string) (*types.AuthLoginResponse, error) {
	username := strings.TrimSpace(req.Username)
	password := strings.TrimSpace(req.Password)
	if username == "" || password == "" {
		return nil, ErrInvalidRequest
	}
	if !l.svcCtx.AllowLogin(ip, username) {
		return nil, ErrLoginRateLimit
	}
	user, err := l.svcCtx.Users.Verify(l.ctx, username, password)
	if err != nil {
		if errors.Is(err, usersgorm.ErrBadCredentials) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	roles, err := l.svcCtx.Users.ListUserRoles(l.ctx, user.ID)
	if err != nil {
		return nil, err
	}
	tok, err := l.svcCtx.Tokens.Sign(user.Username, roles, l.svcCtx.TokenTTL)
	if err != nil {
		return nil, err
	}
	l.Infof("login: user=%s roles=%v", user.Username, roles)
	return &types.AuthLoginResponse{
		Token: tok,
		User:  types.UserInfo{Username: user.Username, Roles: roles},
	}, nil
}
