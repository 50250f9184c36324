package cmd

import (
	"context"
	"fmt"

	"github.com/jsphweid/theorytab/constants"
	"github.com/jsphweid/theorytab/db"
	"github.com/jsphweid/theorytab/logger"
	"github.com/jsphweid/theorytab/model"
	"github.com/jsphweid/theorytab/section"
	"github.com/jsphweid/theorytab/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var appFs = afero.NewOsFs()

// commandContext carries a logger tagged with the running command.
func commandContext(cmd *cobra.Command) context.Context {
	return logger.ContextWithLogger(cmd.Context(), logger.GetDefault().With("cmd", cmd.Name()))
}

func newLegacySink(fs afero.Fs) (store.LegacySink, error) {
	switch kind := constants.GetLegacySink(); kind {
	case "file":
		return store.NewFileSink(fs, constants.GetLegacyLogPath()), nil
	case "dynamodb":
		return db.NewDynamoSink(constants.GetDynamoEndpoint(), constants.GetDynamoRegion(), constants.GetDynamoTable())
	case "none":
		return store.NopSink{}, nil
	default:
		return nil, fmt.Errorf("unknown LEGACY_SINK %q", kind)
	}
}

// newPublisher returns nil when KAFKA_BROKERS is not set.
func newPublisher() *store.KafkaPublisher {
	brokers := constants.GetKafkaBrokers()
	if len(brokers) == 0 {
		return nil
	}
	return store.NewKafkaPublisher(brokers, constants.GetKafkaTopic())
}

func normalizeFile(fs afero.Fs, path string) (*model.Section, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return section.FromXML(f)
}
