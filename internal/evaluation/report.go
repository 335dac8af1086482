package evaluation

import (
	"encoding/csv"
	"os"

	"github.com/pkg/errors"
)

// WriteReport persists evaluation results as a flat CSV table with one row
// per (test, condition) pair.
func WriteReport(path string, results []Result) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create report file %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"test", "condition", "result"}); err != nil {
		return errors.Wrap(err, "failed to write report header")
	}
	for _, r := range results {
		if err := w.Write([]string{r.Name, r.Condition, r.Value}); err != nil {
			return errors.Wrap(err, "failed to write report row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrap(err, "failed to flush report")
	}
	return nil
}
