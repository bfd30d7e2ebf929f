package notify

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"rfp-pipeline/internal/common/config"
	"rfp-pipeline/internal/common/logger"
)

// SESTransport delivers mail through Amazon SES.
type SESTransport struct {
	client *ses.Client
	from   string
	logger logger.Logger
}

func NewSESTransport(ctx context.Context, cfg config.MailConfig, log logger.Logger) (*SESTransport, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.SES.Region))
	if err != nil {
		return nil, err
	}
	return &SESTransport{
		client: ses.NewFromConfig(awsCfg),
		from:   cfg.From,
		logger: log.WithFields(map[string]interface{}{"transport": "ses"}),
	}, nil
}

func (t *SESTransport) Send(ctx context.Context, to, subject, body string) error {
	if err := ValidateAddress(to); err != nil {
		return err
	}

	_, err := t.client.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(t.from),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	return err
}
