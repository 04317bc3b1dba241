package runner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/tandem/pkg/domain"
)

// ErrUnknownCommand is returned for input lines that are not commands.
var ErrUnknownCommand = errors.New("unknown command")

// Command is one parsed input line.
type Command struct {
	Event domain.Event
	Quit  bool
	Help  bool
}

// Help lists the text commands.
const Help = `Commands:
  search <a|b> [term]   filter a list (empty term clears the filter)
  more <a|b>            load the next page of a list
  pick <a|b> <code>     pick a value (a first, then b)
  retry                 retry a failed combination
  cancel                drop the current picks
  help                  show this help
  quit                  leave`

// ParseCommand parses a text command line.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, nil
	}

	verb := strings.ToLower(fields[0])
	args := fields[1:]

	switch verb {
	case "quit", "exit", "q":
		return Command{Quit: true}, nil
	case "help", "h", "?":
		return Command{Help: true}, nil
	case "retry":
		return Command{Event: domain.RetryCombine{}}, nil
	case "cancel":
		return Command{Event: domain.CancelSelection{}}, nil
	}

	if len(args) == 0 {
		return Command{}, fmt.Errorf("%w: %q needs a list (a or b)", ErrUnknownCommand, verb)
	}
	region, err := domain.ParseRegion(args[0])
	if err != nil {
		return Command{}, err
	}
	rest := args[1:]

	switch verb {
	case "search", "s", "/":
		return Command{Event: domain.Search{Region: region, Term: strings.Join(rest, " ")}}, nil
	case "more", "m":
		return Command{Event: domain.LoadMore{Region: region}}, nil
	case "pick", "p":
		if len(rest) != 1 {
			return Command{}, fmt.Errorf("%w: pick needs exactly one code", ErrUnknownCommand)
		}
		if region == domain.RegionA {
			return Command{Event: domain.PickFirst{Code: rest[0]}}, nil
		}
		return Command{Event: domain.PickSecond{Code: rest[0]}}, nil
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, verb)
}
