package handler

import (
	"mhhf/internal/usecase"
)

var (
	authHandler        *AuthHandler
	publicMediaHandler *PublicMediaHandler
	adminMediaHandler  *AdminMediaHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	mediaUseCase *usecase.MediaUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	publicMediaHandler = NewPublicMediaHandler(mediaUseCase)
	adminMediaHandler = NewAdminMediaHandler(mediaUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetPublicMediaHandler() *PublicMediaHandler {
	return publicMediaHandler
}

func GetAdminMediaHandler() *AdminMediaHandler {
	return adminMediaHandler
}
