package file

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"io"
	"path"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/inout-app/inout-backend-go/internal/pkg/storage"
	"golang.org/x/image/draw"
)

const (
	AvatarSize     = 256
	MaxAvatarBytes = 5 << 20

	// Uploads are bounded before decoding so a small file cannot claim a huge canvas.
	MaxAvatarDimension = 8192
	MaxAvatarPixels    = 40_000_000
)

var (
	ErrInvalidFileType = errors.New("invalid file type: only jpg, jpeg, png allowed")
	ErrFileTooLarge    = errors.New("file is too large")
	ErrInvalidImage    = errors.New("file is not a readable image")
)

type FileService interface {
	// UploadAvatar stores a square JPEG avatar and returns its public URL.
	UploadAvatar(ctx context.Context, uid string, file io.Reader, filename string) (string, error)

	// DeleteByURL removes a file previously returned by UploadAvatar. URLs
	// not issued by this storage are ignored.
	DeleteByURL(ctx context.Context, url string) error
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

// UploadAvatar implements FileService.
func (s *fileServiceImpl) UploadAvatar(ctx context.Context, uid string, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", ErrInvalidFileType
	}

	buffer, err := io.ReadAll(io.LimitReader(file, MaxAvatarBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read image: %w", err)
	}
	if len(buffer) > MaxAvatarBytes {
		return "", ErrFileTooLarge
	}

	avatar, err := squareAvatar(buffer, AvatarSize)
	if err != nil {
		return "", err
	}

	newFilename := fmt.Sprintf("%s-%s.jpg", uid, uuid.New().String())
	uploadedPath, err := s.storage.Upload(ctx, bytes.NewReader(avatar), path.Join("avatars", uid, newFilename), "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload avatar: %w", err)
	}

	return s.storage.URL(uploadedPath), nil
}

// DeleteByURL implements FileService.
func (s *fileServiceImpl) DeleteByURL(ctx context.Context, url string) error {
	p, ok := s.storage.PathFromURL(url)
	if !ok {
		return nil
	}
	return s.storage.Delete(ctx, p)
}

// squareAvatar decodes jpg or png honouring EXIF orientation, crops the
// centre square and scales it to size x size.
func squareAvatar(buffer []byte, size int) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(buffer))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 ||
		cfg.Width > MaxAvatarDimension || cfg.Height > MaxAvatarDimension ||
		cfg.Width*cfg.Height > MaxAvatarPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds avatar bounds", ErrInvalidImage, cfg.Width, cfg.Height)
	}

	img, err := imaging.Decode(bytes.NewReader(buffer), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	side := bounds.Dx()
	if bounds.Dy() < side {
		side = bounds.Dy()
	}
	cropped := imaging.CropCenter(img, side, side)

	var resized image.Image = cropped
	if side > size {
		resized = resizeImage(cropped, size, size)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, resized, &jpeg.Options{Quality: 85}); err != nil {
		return nil, fmt.Errorf("failed to encode avatar: %w", err)
	}
	return buf.Bytes(), nil
}

// resizeImage resizes an image to the specified dimensions using high-quality interpolation
func resizeImage(src image.Image, width, height int) image.Image {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)
	return dst
}
