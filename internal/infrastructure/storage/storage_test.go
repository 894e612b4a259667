package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func TestLocal_Save(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "upload")
	l, err := NewLocal(dir)
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}

	p, err := l.Save(context.Background(), strings.NewReader("png-bytes"), 9, "image/png", ".png")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(p, PublicPrefix+"/") || !strings.HasSuffix(p, ".png") {
		t.Fatalf("unexpected public path %q", p)
	}

	data, err := os.ReadFile(filepath.Join(dir, filepath.Base(p)))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(data) != "png-bytes" {
		t.Fatalf("unexpected content %q", data)
	}

	other, _ := l.Save(context.Background(), strings.NewReader("x"), 1, "image/png", ".png")
	if other == p {
		t.Fatal("two uploads must not share a name")
	}
}

func TestLocal_Save_CancelledContext(t *testing.T) {
	l, _ := NewLocal(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Save(ctx, strings.NewReader("x"), 1, "image/png", ".png"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

type fakePutter struct {
	in   *s3.PutObjectInput
	body string
	err  error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	b, _ := io.ReadAll(in.Body)
	f.body = string(b)
	return &s3.PutObjectOutput{}, f.err
}

func TestS3_Save(t *testing.T) {
	fp := &fakePutter{}
	s := newS3(fp, S3Config{Bucket: "avatars", PublicURL: "http://minio:9000/avatars/"})
	s.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	url, err := s.Save(context.Background(), strings.NewReader("jpeg"), 4, "image/jpeg", ".jpg")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	key := aws.ToString(fp.in.Key)
	if !strings.HasPrefix(key, "avatars/2026/03/") || !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("unexpected key %q", key)
	}
	if url != "http://minio:9000/avatars/"+key {
		t.Fatalf("unexpected url %q", url)
	}
	if aws.ToString(fp.in.Bucket) != "avatars" || aws.ToString(fp.in.ContentType) != "image/jpeg" || aws.ToInt64(fp.in.ContentLength) != 4 {
		t.Fatalf("unexpected put input: %+v", fp.in)
	}
	if fp.body != "jpeg" {
		t.Fatalf("unexpected body %q", fp.body)
	}
}

func TestS3_DefaultPublicURL(t *testing.T) {
	s := newS3(&fakePutter{}, S3Config{Bucket: "b", Region: "eu-west-1"})
	if s.publicURL != "https://b.s3.eu-west-1.amazonaws.com" {
		t.Fatalf("unexpected public url %q", s.publicURL)
	}
}

func TestS3_Save_Error(t *testing.T) {
	s := newS3(&fakePutter{err: errors.New("denied")}, S3Config{Bucket: "b"})
	if _, err := s.Save(context.Background(), strings.NewReader("x"), 1, "image/png", ".png"); err == nil {
		t.Fatal("expected error")
	}
}
