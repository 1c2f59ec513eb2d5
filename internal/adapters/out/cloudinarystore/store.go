// Package cloudinarystore implements the attachment store on Cloudinary.
// Evidence photos never pass through this service: the core issues a signed
// upload ticket, the driver app posts the file straight to Cloudinary, and
// later reads go through short-lived signed delivery URLs.
package cloudinarystore

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
)

const uploadFolder = "cancellation-evidence"

// CloudinaryAttachmentStore implements ports.AttachmentStore.
type CloudinaryAttachmentStore struct {
	cld *cloudinary.Cloudinary
	now func() time.Time
}

// NewCloudinaryAttachmentStore creates a store from Cloudinary credentials.
func NewCloudinaryAttachmentStore(cloudName, apiKey, apiSecret string) (*CloudinaryAttachmentStore, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("init cloudinary: %w", err)
	}

	return &CloudinaryAttachmentStore{
		cld: cld,
		now: time.Now,
	}, nil
}

// IssueUploadTicket reserves an upload slot for a file with the given
// extension. The returned URL carries the signature and can be posted to
// directly by the client; the ttl is advisory for the caller, Cloudinary
// enforces its own signature validity window.
func (s *CloudinaryAttachmentStore) IssueUploadTicket(
	ctx context.Context, _ time.Duration, fileExtension string,
) (ports.UploadTicket, error) {
	ext := strings.TrimPrefix(strings.ToLower(fileExtension), ".")
	if ext == "" {
		return ports.UploadTicket{}, errs.NewValueIsRequiredError("fileExtension")
	}

	publicID := uploadFolder + "/" + kernel.NewUUID().String()

	params := url.Values{}
	params.Set("public_id", publicID)
	params.Set("timestamp", strconv.FormatInt(s.now().Unix(), 10))

	signature, err := api.SignParameters(params, s.cld.Config.Cloud.APISecret)
	if err != nil {
		return ports.UploadTicket{}, fmt.Errorf("sign upload parameters: %w", err)
	}

	params.Set("signature", signature)
	params.Set("api_key", s.cld.Config.Cloud.APIKey)

	uploadURL := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload?%s",
		s.cld.Config.Cloud.CloudName, params.Encode())

	return ports.UploadTicket{
		Filename:  publicID + "." + ext,
		UploadURL: uploadURL,
	}, nil
}

// SignedURL resolves a previously uploaded filename to a signed delivery URL.
func (s *CloudinaryAttachmentStore) SignedURL(ctx context.Context, filename string) (string, error) {
	if filename == "" {
		return "", errs.NewValueIsRequiredError("filename")
	}

	publicID := filename
	if idx := strings.LastIndex(filename, "."); idx > 0 {
		publicID = filename[:idx]
	}

	img, err := s.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("resolve attachment %s: %w", filename, err)
	}
	img.Config.URL.SignURL = true

	signedURL, err := img.String()
	if err != nil {
		return "", fmt.Errorf("sign attachment url %s: %w", filename, err)
	}

	return signedURL, nil
}
