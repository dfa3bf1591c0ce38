package main

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	log "github.com/sirupsen/logrus"

	"gendict/dict"
)

// MinioLoader uploads the records as one dictionary text object.
type MinioLoader struct {
	Minioconfig *MinioConfig

	mu  sync.Mutex
	cli *minio.Client
}

func (p *MinioLoader) Name() string {
	return "minio"
}

// objectName such as dict/20261019-150405.000-100.txt
func objectName(t time.Time, n int) string {
	return fmt.Sprintf("dict/%s-%d.txt", t.Format("20060102-150405.000"), n)
}

func (p *MinioLoader) Load(ctx context.Context, records []dict.Record) (int, error) {
	cli, err := p.openMinio(ctx)
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	if _, err = dict.WriteAll(&buf, slices.Values(records)); err != nil {
		return 0, err
	}

	name := objectName(time.Now(), len(records))
	info, err := cli.PutObject(ctx, p.Minioconfig.Bucket, name,
		bytes.NewReader(buf.Bytes()), int64(buf.Len()),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	if err != nil {
		log.Errorf("minio put object '%s/%s' failed: %v", p.Minioconfig.Bucket, name, err)
		return 0, err
	}

	log.Infof("minio put object '%s/%s' size %d", info.Bucket, info.Key, info.Size)
	return len(records), nil
}

func (p *MinioLoader) openMinio(ctx context.Context) (*minio.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cli != nil {
		return p.cli, nil
	}

	cli, err := minio.New(p.Minioconfig.Addr, &minio.Options{
		Creds:  credentials.NewStaticV4(p.Minioconfig.User, p.Minioconfig.Password, ""),
		Secure: p.Minioconfig.Ssl,
	})
	if err != nil {
		log.Errorf("new minio client '%s' failed: %v", p.Minioconfig.Addr, err)
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, p.Minioconfig.Bucket)
	if err != nil {
		log.Errorf("minio check bucket '%s' failed: %v", p.Minioconfig.Bucket, err)
		return nil, err
	}
	if !exists {
		if err = cli.MakeBucket(ctx, p.Minioconfig.Bucket, minio.MakeBucketOptions{}); err != nil {
			log.Errorf("minio make bucket '%s' failed: %v", p.Minioconfig.Bucket, err)
			return nil, err
		}
		log.Infof("minio bucket '%s' created", p.Minioconfig.Bucket)
	}

	p.cli = cli
	return cli, nil
}

// minio client holds no connection to release
func (p *MinioLoader) Close() error {
	p.mu.Lock()
	p.cli = nil
	p.mu.Unlock()
	return nil
}
