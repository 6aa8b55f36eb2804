package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	appconfig "pcshop_service/internal/config"
	"pcshop_service/internal/domain/entities"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakeObjectAPI struct {
	puts    []*s3.PutObjectInput
	bodies  []string
	deletes []string
	putErr  error
}

func (f *fakeObjectAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, _ := io.ReadAll(in.Body)
	f.puts = append(f.puts, in)
	f.bodies = append(f.bodies, string(b))
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeObjectAPI) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.deletes = append(f.deletes, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3AttachmentStore_Upload(t *testing.T) {
	api := &fakeObjectAPI{}
	store := NewS3AttachmentStore(api, appconfig.StorageConfig{Bucket: "shop", PublicBaseURL: "https://cdn.shop.kr/"}, "ap-northeast-2")

	att, err := store.Upload(context.Background(), entities.UploadFile{
		Filename: "../고장 사진.jpg",
		MimeType: "image/jpeg",
		Content:  []byte("jpeg-bytes"),
	}, "sr-1", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(att.Key, "sr-1/2-") || !strings.HasSuffix(att.Key, "-고장 사진.jpg") {
		t.Fatalf("unexpected key %q", att.Key)
	}
	if !strings.HasPrefix(att.URL, "https://cdn.shop.kr/sr-1/2-") || strings.Contains(att.URL, " ") {
		t.Fatalf("unexpected url %q", att.URL)
	}
	if att.Size != 10 || att.MimeType != "image/jpeg" || att.Filename != "../고장 사진.jpg" {
		t.Fatalf("unexpected attachment %+v", att)
	}
	if len(api.puts) != 1 || aws.ToString(api.puts[0].Bucket) != "shop" || api.bodies[0] != "jpeg-bytes" {
		t.Fatalf("unexpected put %+v", api.puts)
	}
}

func TestS3AttachmentStore_UploadError(t *testing.T) {
	api := &fakeObjectAPI{putErr: errors.New("denied")}
	store := NewS3AttachmentStore(api, appconfig.StorageConfig{Bucket: "shop"}, "ap-northeast-2")

	_, err := store.Upload(context.Background(), entities.UploadFile{Filename: "a.png"}, "r-1", 0)
	if err == nil || !strings.Contains(err.Error(), "denied") {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestS3AttachmentStore_Delete(t *testing.T) {
	api := &fakeObjectAPI{}
	store := NewS3AttachmentStore(api, appconfig.StorageConfig{Bucket: "shop"}, "ap-northeast-2")

	if err := store.Delete(context.Background(), ""); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Delete(context.Background(), "r-1/0-x-a.png"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(api.deletes) != 1 || api.deletes[0] != "r-1/0-x-a.png" {
		t.Fatalf("unexpected deletes %v", api.deletes)
	}
}

func TestPublicBaseURL(t *testing.T) {
	cases := []struct {
		cfg  appconfig.StorageConfig
		want string
	}{
		{appconfig.StorageConfig{Bucket: "b", PublicBaseURL: "https://cdn/"}, "https://cdn"},
		{appconfig.StorageConfig{Bucket: "b", Endpoint: "http://minio:9000/"}, "http://minio:9000/b"},
		{appconfig.StorageConfig{Bucket: "b"}, "https://b.s3.ap-northeast-2.amazonaws.com"},
	}
	for _, tc := range cases {
		if got := publicBaseURL(tc.cfg, "ap-northeast-2"); got != tc.want {
			t.Fatalf("expected %q, got %q", tc.want, got)
		}
	}
}
