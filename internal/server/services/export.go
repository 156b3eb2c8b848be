package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/feedbackportal/internal/api"
	"github.com/dmitrijs2005/feedbackportal/internal/common"
	"github.com/dmitrijs2005/feedbackportal/internal/logging"
	sc "github.com/dmitrijs2005/feedbackportal/internal/server/config"
	"github.com/dmitrijs2005/feedbackportal/internal/server/models"
	"github.com/dmitrijs2005/feedbackportal/internal/server/repositories/repomanager"
	"github.com/go-pdf/fpdf"
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}

	nowFn = time.Now
)

// ExportService renders feedback as PDF and optionally archives every
// rendered document to S3.
type ExportService struct {
	feedback    *FeedbackService
	repomanager repomanager.RepositoryManager
	config      *sc.Config
	logger      logging.Logger
}

func NewExportService(feedback *FeedbackService, m repomanager.RepositoryManager, cfg *sc.Config, logger logging.Logger) *ExportService {
	return &ExportService{
		feedback:    feedback,
		repomanager: m,
		config:      cfg,
		logger:      logger.With("module", "export"),
	}
}

// ArchiveKey is the object key an export of feedbackID is stored under.
func ArchiveKey(feedbackID string, t time.Time) string {
	return fmt.Sprintf("exports/%s/%d.pdf", feedbackID, t.Unix())
}

// PDF renders the feedback for its author or subject. Archive failures are
// logged and never fail the export.
func (s *ExportService) PDF(ctx context.Context, caller *models.User, id string) ([]byte, error) {
	fb, err := s.feedback.Get(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	users := s.repomanager.Users(s.feedback.db)
	employee, err := users.GetByID(ctx, fb.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("error loading employee: %w", err)
	}
	manager, err := users.GetByID(ctx, fb.ManagerID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("error loading manager: %w", err)
	}

	now := nowFn()
	data, err := renderPDF(fb, employee, manager, now)
	if err != nil {
		return nil, fmt.Errorf("error rendering pdf: %w", err)
	}

	if s.config.ArchivePDF {
		key := ArchiveKey(fb.ID, now)
		if err := s.archive(ctx, key, data); err != nil {
			s.logger.Warn(ctx, "pdf archive failed", "feedback_id", fb.ID, "key", key, "error", err)
		} else {
			s.logger.Debug(ctx, "pdf archived", "feedback_id", fb.ID, "key", key)
		}
	}
	return data, nil
}

func (s *ExportService) archive(ctx context.Context, key string, data []byte) error {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if s.config.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.config.S3Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(api.ContentTypePDF),
	})
	return err
}

func renderPDF(fb *models.Feedback, employee, manager *models.User, now time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Performance feedback", true)
	pdf.SetCreator("feedbackportal", true)
	pdf.SetCreationDate(now)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "Performance Feedback", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	field := func(label, value string) {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(40, 7, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 7, tr(value), "", 1, "L", false, 0, "")
	}

	managerName := fb.ManagerID
	if manager != nil {
		managerName = manager.Name
	}
	field("Employee:", employee.Name)
	field("Manager:", managerName)
	field("Date:", fb.CreatedAt.Format("2006-01-02"))
	field("Sentiment:", string(fb.Sentiment))
	if len(fb.Tags) > 0 {
		names := make([]string, 0, len(fb.Tags))
		for _, t := range fb.Tags {
			names = append(names, t.Name)
		}
		field("Tags:", strings.Join(names, ", "))
	}
	if fb.Acknowledgement != nil {
		field("Acknowledged:", fb.Acknowledgement.AcknowledgedAt.Format("2006-01-02"))
	}

	section := func(title, body string) {
		if strings.TrimSpace(body) == "" {
			return
		}
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, 6, tr(body), "", "L", false)
	}
	section("Strengths", fb.Strengths)
	section("Areas for improvement", fb.Improvements)
	if fb.Acknowledgement != nil && fb.Acknowledgement.Comment != nil {
		section("Employee comment", *fb.Acknowledgement.Comment)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
