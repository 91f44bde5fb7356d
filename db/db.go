package db

import (
	"context"
	"strconv"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/constants"
	"github.com/quanmouren/MidiAssembleVideo/model"
)

// Store looks up song metadata keyed by MIDI file name.
type Store struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func New(endpoint, region, table string) (*Store, error) {
	cfg := &aws.Config{}
	if endpoint != "" {
		cfg.Endpoint = aws.String(endpoint)
	}
	if region != "" {
		cfg.Region = aws.String(region)
	}
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "Could not create a new DynamoDB session")
	}
	return NewWithClient(dynamodb.New(sess), table), nil
}

func NewWithClient(client dynamodbiface.DynamoDBAPI, table string) *Store {
	if table == "" {
		table = constants.DefaultMetadataTable
	}
	return &Store{client: client, table: table}
}

func str(v *dynamodb.AttributeValue) string {
	if v == nil || v.S == nil {
		return ""
	}
	return *v.S
}

func toMetadata(item map[string]*dynamodb.AttributeValue) model.MidiMetadata {
	var m model.MidiMetadata
	if v := item["Year"]; v != nil && v.N != nil {
		year, _ := strconv.ParseUint(*v.N, 10, 32)
		m.Year = uint(year)
	}
	m.Artist = str(item["Artist"])
	m.Release = str(item["Release"])
	m.Title = str(item["Title"])
	return m
}

// GetMidiMetadatas returns the metadata found for filenames. Files without
// an item are absent from the map.
func (s *Store) GetMidiMetadatas(ctx context.Context, filenames []string) (map[string]model.MidiMetadata, error) {
	res := make(map[string]model.MidiMetadata)

	for start := 0; start < len(filenames); start += constants.MetadataBatchSize {
		end := start + constants.MetadataBatchSize
		if end > len(filenames) {
			end = len(filenames)
		}

		var keys []map[string]*dynamodb.AttributeValue
		for _, filename := range filenames[start:end] {
			keys = append(keys, map[string]*dynamodb.AttributeValue{
				"PK": {S: aws.String(filename)},
			})
		}

		request := map[string]*dynamodb.KeysAndAttributes{s.table: {Keys: keys}}
		for len(request) > 0 {
			out, err := s.client.BatchGetItemWithContext(ctx, &dynamodb.BatchGetItemInput{RequestItems: request})
			if err != nil {
				return nil, errors.Wrap(err, "Error from DynamoDB")
			}
			for _, item := range out.Responses[s.table] {
				if pk := str(item["PK"]); pk != "" {
					res[pk] = toMetadata(item)
				}
			}
			request = out.UnprocessedKeys
		}
	}
	return res, nil
}

// Lookup is GetMidiMetadatas for a single file.
func (s *Store) Lookup(ctx context.Context, filename string) (*model.MidiMetadata, error) {
	all, err := s.GetMidiMetadatas(ctx, []string{filename})
	if err != nil {
		return nil, err
	}
	if m, ok := all[filename]; ok {
		return &m, nil
	}
	return nil, nil
}
