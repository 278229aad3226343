package blob

import (
	"context"
	"errors"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// CloudinaryStore uploads binary assets (group icons) to Cloudinary and
// deletes replaced ones by public id.
type CloudinaryStore struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryStore(url string) (*CloudinaryStore, error) {
	if url == "" {
		return nil, errors.New("cloudinary URL required (set CLOUDINARY_URL)")
	}

	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}

	return &CloudinaryStore{cld: cld}, nil
}

// Upload stores the file under the given folder and returns the public URL
// plus the public id needed to delete the asset later.
func (s *CloudinaryStore) Upload(ctx context.Context, file io.Reader, folder string) (string, string, error) {
	result, err := s.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: folder,
	})
	if err != nil {
		return "", "", err
	}
	if result.Error.Message != "" {
		return "", "", errors.New(result.Error.Message)
	}

	return result.SecureURL, result.PublicID, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, publicId string) error {
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicId,
	})
	return err
}
