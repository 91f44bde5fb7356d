package db

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/pkg/errors"
	"github.com/quanmouren/MidiAssembleVideo/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items     map[string]map[string]*dynamodb.AttributeValue
	batches   []int
	err       error
	holdFirst bool
}

func (f *fakeDynamo) BatchGetItemWithContext(ctx aws.Context, in *dynamodb.BatchGetItemInput, opts ...request.Option) (*dynamodb.BatchGetItemOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]*dynamodb.AttributeValue{}}
	for table, ka := range in.RequestItems {
		f.batches = append(f.batches, len(ka.Keys))
		keys := ka.Keys
		if f.holdFirst && len(keys) > 1 {
			f.holdFirst = false
			out.UnprocessedKeys = map[string]*dynamodb.KeysAndAttributes{table: {Keys: keys[1:]}}
			keys = keys[:1]
		}
		for _, k := range keys {
			if item, ok := f.items[*k["PK"].S]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func item(pk, title string, year string) map[string]*dynamodb.AttributeValue {
	res := map[string]*dynamodb.AttributeValue{
		"PK":     {S: aws.String(pk)},
		"Title":  {S: aws.String(title)},
		"Artist": {S: aws.String("Someone")},
	}
	if year != "" {
		res["Year"] = &dynamodb.AttributeValue{N: aws.String(year)}
	}
	return res
}

func TestGetMidiMetadatas(t *testing.T) {
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{
		"a.mid": item("a.mid", "Song A", "1999"),
		"b.mid": item("b.mid", "Song B", ""),
	}}
	s := NewWithClient(fake, "")

	res, err := s.GetMidiMetadatas(context.Background(), []string{"a.mid", "b.mid", "c.mid"})
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Len(res, 2)
	assert.Equal(model.MidiMetadata{Title: "Song A", Artist: "Someone", Year: 1999}, res["a.mid"])
	assert.Equal(model.MidiMetadata{Title: "Song B", Artist: "Someone"}, res["b.mid"])
}

func TestGetMidiMetadatasBatches(t *testing.T) {
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{}}
	var names []string
	for i := 0; i < 250; i++ {
		names = append(names, fmt.Sprintf("%d.mid", i))
	}
	_, err := NewWithClient(fake, "t").GetMidiMetadatas(context.Background(), names)
	require.NoError(t, err)
	assert.Equal(t, []int{100, 100, 50}, fake.batches)
}

func TestGetMidiMetadatasRetriesUnprocessed(t *testing.T) {
	fake := &fakeDynamo{holdFirst: true, items: map[string]map[string]*dynamodb.AttributeValue{
		"a.mid": item("a.mid", "A", ""),
		"b.mid": item("b.mid", "B", ""),
	}}
	res, err := NewWithClient(fake, "t").GetMidiMetadatas(context.Background(), []string{"a.mid", "b.mid"})
	require.NoError(t, err)
	assert.Len(t, res, 2)
	assert.Equal(t, []int{2, 1}, fake.batches)
}

func TestLookup(t *testing.T) {
	fake := &fakeDynamo{items: map[string]map[string]*dynamodb.AttributeValue{
		"a.mid": item("a.mid", "A", ""),
	}}
	s := NewWithClient(fake, "t")

	m, err := s.Lookup(context.Background(), "a.mid")
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, "A", m.Title)

	m, err = s.Lookup(context.Background(), "z.mid")
	require.NoError(t, err)
	assert.Nil(t, m)

	fake.err = errors.New("throttled")
	_, err = s.Lookup(context.Background(), "a.mid")
	assert.ErrorContains(t, err, "throttled")
}
