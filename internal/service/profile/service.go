package profile

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/inout-app/inout-backend-go/internal/domain/user"
	"github.com/inout-app/inout-backend-go/internal/service/file"
)

type ProfileServiceImpl struct {
	user.UserRepository
	fileService file.FileService
}

func NewProfileService(userRepository user.UserRepository, fileService file.FileService) user.ProfileService {
	return &ProfileServiceImpl{
		UserRepository: userRepository,
		fileService:    fileService,
	}
}

// GetProfile implements user.ProfileService.
func (p *ProfileServiceImpl) GetProfile(ctx context.Context, uid string) (user.UserResponse, error) {
	u, err := p.UserRepository.GetByUID(ctx, uid)
	if err != nil {
		return user.UserResponse{}, err
	}
	return user.NewUserResponse(u), nil
}

// UpdateProfile implements user.ProfileService.
func (p *ProfileServiceImpl) UpdateProfile(ctx context.Context, uid string, req user.UpdateProfileRequest) (user.UserResponse, error) {
	if err := req.Validate(); err != nil {
		return user.UserResponse{}, err
	}

	current, err := p.UserRepository.GetByUID(ctx, uid)
	if err != nil {
		return user.UserResponse{}, err
	}

	photoURL := req.PhotoURL
	if photoURL == "" {
		photoURL = current.PhotoURL
	}

	if err := p.UserRepository.UpdateProfile(ctx, uid, req.Name, req.Phone, photoURL); err != nil {
		return user.UserResponse{}, err
	}
	if photoURL != current.PhotoURL {
		p.removeOldPhoto(ctx, uid, current.PhotoURL)
	}

	return p.GetProfile(ctx, uid)
}

// UploadPhoto implements user.ProfileService.
func (p *ProfileServiceImpl) UploadPhoto(ctx context.Context, uid string, f io.Reader, filename string) (user.UserResponse, error) {
	current, err := p.UserRepository.GetByUID(ctx, uid)
	if err != nil {
		return user.UserResponse{}, err
	}

	url, err := p.fileService.UploadAvatar(ctx, uid, f, filename)
	if err != nil {
		return user.UserResponse{}, err
	}

	if err := p.UserRepository.UpdateProfile(ctx, uid, current.Name, current.Phone, url); err != nil {
		if delErr := p.fileService.DeleteByURL(ctx, url); delErr != nil {
			slog.Error("Failed to clean up uploaded avatar", "uid", uid, "error", delErr)
		}
		return user.UserResponse{}, fmt.Errorf("failed to save photo url: %w", err)
	}
	p.removeOldPhoto(ctx, uid, current.PhotoURL)

	return p.GetProfile(ctx, uid)
}

func (p *ProfileServiceImpl) removeOldPhoto(ctx context.Context, uid, url string) {
	if url == "" {
		return
	}
	if err := p.fileService.DeleteByURL(ctx, url); err != nil {
		slog.Warn("Failed to delete previous avatar", "uid", uid, "error", err)
	}
}
