// Package resources fetches training files (Brown-cluster TSVs,
// gazetteer word lists) and published model binaries, either from the
// local filesystem or from S3 when a path has an "s3://bucket/key"
// form. Adapted from s3client/client.go's session-refresh machinery.
package resources

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/anglisano/nametag/logger"
)

// Client wraps an S3 session with the same EC2-then-env-credential
// fallback and background refresh-on-error loop s3client.Client uses.
type Client struct {
	holder *sessionHolder
	region string
	env    EnvironmentConfig
}

type sessionHolder struct {
	curr      *session.Session
	requestCh <-chan *session.Session
	errorCh   chan<- error
	closeCh   chan<- struct{}
}

var clientLogger = logger.New("resources.Client")
var sdkLogger = logger.New("resources.S3SDK")

// EnvironmentConfig carries the AWS connection settings. Unlike the
// teacher's s3client, the bucket is per-call (extracted from the
// "s3://bucket/key" URI), not fixed at client construction.
type EnvironmentConfig struct {
	Region      string `envconfig:"NER_AWS_REGION" required:"true"`
	AwsEndpoint string `envconfig:"NER_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"NER_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"NER_AWS_ACCESS_KEY" default:""`
	DevEnv      bool   `envconfig:"NER_DEV_ENV" default:"false"`
}

// New constructs a Client from the environment and eagerly acquires a
// session, the same way s3client.New does.
func New() (*Client, error) {
	errLogger := clientLogger.With().Caller().Logger()
	env, err := readEnvironment(&errLogger)
	if err != nil {
		clientLogger.Err(err).Msg("failed to read resources client environment")
		return nil, err
	}
	client := Client{region: env.Region, env: env}

	sessionCh := make(chan *session.Session)
	errorCh := make(chan error)
	closeCh := make(chan struct{}, 1)
	client.holder = &sessionHolder{requestCh: sessionCh, errorCh: errorCh, closeCh: closeCh}

	if err := client.acquireNewSession(); err != nil {
		return nil, err
	}
	go keepSessionRefreshed(&client, sessionCh, errorCh, closeCh)
	return &client, nil
}

// Close stops the background session-refresh goroutine.
func (client Client) Close() {
	client.holder.closeCh <- struct{}{}
}

// Upload writes data to an "s3://bucket/key" URI.
func (client Client) Upload(uri string, data []byte) error {
	bucket, key, err := splitURI(uri)
	if err != nil {
		return err
	}
	params := &s3manager.UploadInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   strings.NewReader(string(data)),
	}
	sess, err := client.session()
	if err != nil {
		return err
	}
	if err := client.upload(sess, params); err == nil {
		return nil
	}
	sess, err = client.tryRefreshingSession(err)
	if err != nil {
		return err
	}
	return client.upload(sess, params)
}

// Download reads an "s3://bucket/key" URI.
func (client Client) Download(uri string) ([]byte, error) {
	bucket, key, err := splitURI(uri)
	if err != nil {
		return nil, err
	}
	params := &s3.GetObjectInput{Bucket: aws.String(bucket), Key: aws.String(key)}
	sess, err := client.session()
	if err != nil {
		return nil, err
	}
	res, err := client.download(sess, params)
	if err == nil {
		return res, nil
	}
	sess, err = client.tryRefreshingSession(err)
	if err != nil {
		return nil, err
	}
	return client.download(sess, params)
}

func splitURI(uri string) (bucket, key string, err error) {
	const prefix = "s3://"
	if !strings.HasPrefix(uri, prefix) {
		return "", "", fmt.Errorf("resources: %q is not an s3:// uri", uri)
	}
	rest := uri[len(prefix):]
	idx := strings.IndexByte(rest, '/')
	if idx < 0 {
		return "", "", fmt.Errorf("resources: %q has no key component", uri)
	}
	return rest[:idx], rest[idx+1:], nil
}

func (client Client) upload(sess *session.Session, params *s3manager.UploadInput) error {
	log := clientLogger.With().Str("key", *params.Key).Str("bucket", *params.Bucket).Logger()
	sdkLog := sdkLogger.With().Str("key", *params.Key).Str("bucket", *params.Bucket).Logger()

	uploader := s3manager.NewUploader(sess.Copy(&aws.Config{Logger: newS3Logger(sdkLog)}))
	log.Debug().Msg("uploading resource")
	_, err := uploader.Upload(params)
	return err
}

func (client Client) download(sess *session.Session, params *s3.GetObjectInput) ([]byte, error) {
	log := clientLogger.With().Str("key", *params.Key).Str("bucket", *params.Bucket).Logger()
	sdkLog := sdkLogger.With().Str("key", *params.Key).Str("bucket", *params.Bucket).Logger()

	downloader := s3manager.NewDownloader(sess.Copy(&aws.Config{Logger: newS3Logger(sdkLog)}))
	buf := aws.NewWriteAtBuffer([]byte{})

	log.Debug().Msg("downloading resource")
	size, err := downloader.Download(buf, params)
	if err != nil {
		log.Error().Err(err).Msg("failed to download resource")
		return nil, err
	}
	log.Debug().Msgf("downloaded %d bytes", size)
	return buf.Bytes(), nil
}

func keepSessionRefreshed(client *Client, sessionCh chan<- *session.Session, errorCh <-chan error, closeCh <-chan struct{}) {
	for {
		select {
		case sessionCh <- client.holder.curr:
			continue
		default:
		}
		select {
		case sessionCh <- client.holder.curr:
		case err := <-errorCh:
			clientLogger.Error().Err(err).Msg("caught error using S3 session, refreshing")
			if err := client.acquireNewSession(); err != nil {
				clientLogger.Error().Err(err).Msg("failed to refresh S3 session")
				continue
			}
			clientLogger.Info().Msg("refreshed S3 session")
		case <-closeCh:
			clientLogger.Info().Msg("closing resources client")
			return
		}
	}
}

func (client Client) tryRefreshingSession(cause error) (*session.Session, error) {
	var sess *session.Session
	select {
	case client.holder.errorCh <- cause:
		sess = <-client.holder.requestCh
	case sess = <-client.holder.requestCh:
	}
	if sess == nil {
		return nil, errors.New("resources: failed to refresh S3 session")
	}
	return sess, nil
}

func (client Client) session() (*session.Session, error) {
	sess := <-client.holder.requestCh
	if sess == nil {
		return nil, errors.New("resources: could not get S3 session")
	}
	return sess, nil
}

func (client Client) createEC2Config() *aws.Config {
	return &aws.Config{
		Region:     aws.String(client.region),
		MaxRetries: aws.Int(4),
		LogLevel:   aws.LogLevel(aws.LogDebug),
	}
}

func (client Client) createEnvConfig() *aws.Config {
	creds := credentials.NewStaticCredentials(client.env.AccessKeyID, client.env.AccessKey, "")
	if _, err := creds.Get(); err != nil {
		clientLogger.Error().Err(err).Msg("error with credentials from environment")
		panic(err)
	}
	cfg := aws.NewConfig().
		WithRegion(client.region).
		WithMaxRetries(4).
		WithCredentials(creds).
		WithLogLevel(aws.LogDebug)

	if client.env.DevEnv && client.env.AwsEndpoint != "" {
		cfg = cfg.WithEndpoint(client.env.AwsEndpoint).WithS3ForcePathStyle(true)
	}
	return cfg
}

func (client *Client) acquireNewSession() error {
	sess, err := session.NewSession(client.createEC2Config())
	if err != nil {
		client.holder.curr = nil
		clientLogger.Error().Err(err).Msg("could not initialize S3 session")
		return err
	}
	if _, err := sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err == nil {
		client.holder.curr = sess
		clientLogger.Info().Msg("S3 session initialized using EC2 role")
		return nil
	}
	clientLogger.Info().Msg("could not initialize S3 session using EC2 role, trying env credentials")
	sess, err = session.NewSession(client.createEnvConfig())
	if err != nil {
		client.holder.curr = nil
		clientLogger.Error().Err(err).Msg("could not initialize S3 session")
		return err
	}
	if _, err := sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err != nil {
		client.holder.curr = nil
		clientLogger.Error().Err(err).Msg("could not initialize S3 session")
		return errors.New("resources: could not initialize S3 session")
	}
	client.holder.curr = sess
	clientLogger.Info().Msg("S3 session initialized using env credentials")
	return nil
}

func readEnvironment(errLogger *zerolog.Logger) (EnvironmentConfig, error) {
	var config EnvironmentConfig
	if err := envconfig.Process("", &config); err != nil {
		errLogger.Err(err).Msg("got error while processing resources client environment")
		return config, err
	}
	return config, nil
}

type s3Logger struct {
	log zerolog.Logger
}

func newS3Logger(log zerolog.Logger) *s3Logger {
	return &s3Logger{log: log}
}

func (l *s3Logger) Log(v ...interface{}) {
	l.log.Debug().Msg(fmt.Sprint(v...))
}
