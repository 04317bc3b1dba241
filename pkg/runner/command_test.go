package runner_test

import (
	"testing"

	"github.com/aretw0/tandem/pkg/domain"
	"github.com/aretw0/tandem/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name string
		line string
		want runner.Command
	}{
		{"Empty", "   ", runner.Command{}},
		{"Quit", "quit", runner.Command{Quit: true}},
		{"Exit Upper", "EXIT", runner.Command{Quit: true}},
		{"Help", "?", runner.Command{Help: true}},
		{"Search With Term", "search a red shoes", runner.Command{Event: domain.Search{Region: domain.RegionA, Term: "red shoes"}}},
		{"Search Clears Term", "search B", runner.Command{Event: domain.Search{Region: domain.RegionB}}},
		{"Load More", "more b", runner.Command{Event: domain.LoadMore{Region: domain.RegionB}}},
		{"Pick From A", "pick a one", runner.Command{Event: domain.PickFirst{Code: "one"}}},
		{"Pick From B", "p 2 two", runner.Command{Event: domain.PickSecond{Code: "two"}}},
		{"Retry", "retry", runner.Command{Event: domain.RetryCombine{}}},
		{"Cancel", "cancel", runner.Command{Event: domain.CancelSelection{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := runner.ParseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCommand_Errors(t *testing.T) {
	tests := []struct {
		line string
		want error
	}{
		{"dance", runner.ErrUnknownCommand},
		{"search", runner.ErrUnknownCommand},
		{"pick a", runner.ErrUnknownCommand},
		{"pick a one two", runner.ErrUnknownCommand},
		{"more c", domain.ErrUnknownRegion},
		{"dance a", runner.ErrUnknownCommand},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			_, err := runner.ParseCommand(tt.line)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
