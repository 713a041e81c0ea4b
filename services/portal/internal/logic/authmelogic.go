package logic

import (
	"context"

	"github.com/zeromicro/go-zero/core/logx"

	"github.com/ticketdesk/portal/services/portal/internal/svc"
	"github.com/ticketdesk/portal/services/portal/internal/types"
)

type AuthMeLogic struct {
	logx.Logger
	ctx    context.Context
	svcCtx *svc.ServiceContext
}

func NewAuthMeLogic(ctx context.Context, svcCtx *svc.ServiceContext) *AuthMeLogic {
	return &AuthMeLogic{
		Logger: logx.WithContext(ctx),
		ctx:    ctx,
		svcCtx: svcCtx,
	}
}

func (l *AuthMeLogic) AuthMe() (*types.MeResponse, error) {
	actor := svc.ActorFromContext(l.ctx)
	if actor == "" {
		return nil, ErrUnauthorized
	}
	return &types.MeResponse{
		Username: actor,
		Roles:    svc.RolesFromContext(l.ctx),
	}, nil
}
