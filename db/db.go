package db

import (
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/pkg/errors"
)

type putItemAPI interface {
	PutItem(input *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error)
}

// DynamoSink records legacy-format songs as items keyed by song id.
type DynamoSink struct {
	client putItemAPI
	table  string
	now    func() time.Time
}

func NewDynamoSink(endpoint, region, table string) (*DynamoSink, error) {
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return &DynamoSink{client: dynamodb.New(sess), table: table, now: time.Now}, nil
}

func (s *DynamoSink) item(songID string) map[string]*dynamodb.AttributeValue {
	return map[string]*dynamodb.AttributeValue{
		"PK":     {S: aws.String(songID)},
		"Format": {S: aws.String("xml")},
		"SeenAt": {N: aws.String(strconv.FormatInt(s.now().Unix(), 10))},
	}
}

func (s *DynamoSink) RecordLegacyFormat(songID string) error {
	_, err := s.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      s.item(songID),
	})
	if err != nil {
		return errors.Wrap(err, "error from DynamoDB")
	}
	return nil
}
