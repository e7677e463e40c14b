// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gorse-io/cfeval/common/log"
	"github.com/gorse-io/cfeval/config"
	"github.com/gorse-io/cfeval/dataset"
	"github.com/gorse-io/cfeval/evaluate"
	"github.com/gorse-io/cfeval/model"
	"github.com/juju/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCommand = &cobra.Command{
	Use:   "cfeval",
	Short: "Evaluate collaborative filtering recommenders on held-out ratings.",
}

var runCommand = &cobra.Command{
	Use:          "run",
	Short:        "Fit a recommender and compute quality measures",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		// setup logger
		debug, _ := cmd.Flags().GetBool("debug")
		if err := log.SetLogger(cmd.Flags(), debug); err != nil {
			return errors.Trace(err)
		}
		defer log.CloseLogger()

		// load config
		configPath, _ := cmd.Flags().GetString("config")
		log.Logger().Info("load config", zap.String("config", configPath))
		conf, err := config.LoadConfig(configPath)
		if err != nil {
			return errors.Annotate(err, "failed to load config")
		}
		if cmd.Flags().Changed("jobs") {
			conf.Evaluate.Jobs, _ = cmd.Flags().GetInt("jobs")
		}

		measures, err := run(conf)
		if err != nil {
			log.Logger().Error("failed to evaluate", zap.Error(err))
			return errors.Trace(err)
		}
		return printMeasures(cmd.OutOrStdout(), measures)
	},
}

func init() {
	rootCommand.PersistentFlags().Bool("debug", false, "use debug log mode")
	rootCommand.PersistentFlags().StringP("config", "c", "", "configuration file path")
	rootCommand.PersistentFlags().IntP("jobs", "j", 0, "number of workers (0 means the number of CPUs)")
	log.AddFlags(rootCommand.PersistentFlags())
	rootCommand.AddCommand(runCommand)
}

// run loads ratings, fits the recommender and computes all quality measures.
func run(conf *config.Config) ([]*evaluate.QualityMeasure, error) {
	train, err := dataset.LoadTriplesFromFile(conf.Data.TrainPath, conf.Data.Separator, conf.Data.Header)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to load %s", conf.Data.TrainPath)
	}
	test, err := dataset.LoadTriplesFromFile(conf.Data.TestPath, conf.Data.Separator, conf.Data.Header)
	if err != nil {
		return nil, errors.Annotatef(err, "failed to load %s", conf.Data.TestPath)
	}
	dataModel := dataset.NewDataModel(train, test)

	params := conf.KNN.GetParams().Overwrite(model.Params{model.NJobs: conf.Evaluate.Jobs})
	recommender, err := model.NewRecommender(conf.KNN.Recommender, dataModel, params)
	if err != nil {
		return nil, errors.Trace(err)
	}
	if err = recommender.Fit(); err != nil {
		return nil, errors.Trace(err)
	}

	measures := make([]*evaluate.QualityMeasure, 0, len(conf.Evaluate.Measures))
	bar := progressbar.NewOptions(len(conf.Evaluate.Measures),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("evaluate"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish())
	for _, name := range conf.Evaluate.Measures {
		score, err := evaluate.Lookup(name, conf.Evaluate.TopN, conf.Evaluate.RelevanceThreshold)
		if err != nil {
			return nil, errors.Trace(err)
		}
		measure := evaluate.NewQualityMeasure(name, dataModel, recommender, score)
		if _, err = measure.GetScore(conf.Evaluate.Jobs); err != nil {
			return nil, errors.Trace(err)
		}
		measures = append(measures, measure)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	return measures, nil
}

func printMeasures(w io.Writer, measures []*evaluate.QualityMeasure) error {
	table := tablewriter.NewWriter(w)
	table.Header("Measure", "Score", "StdDev", "±95%", "±99%", "Count")
	for _, measure := range measures {
		result := measure.Result()
		if err := table.Append([]string{
			measure.Name,
			fmt.Sprintf("%.5f", result.Score),
			fmt.Sprintf("%.5f", result.StdDev),
			fmt.Sprintf("%.5f", result.ConfidenceMargin95()),
			fmt.Sprintf("%.5f", result.ConfidenceMargin99()),
			fmt.Sprint(result.Count),
		}); err != nil {
			return errors.Trace(err)
		}
	}
	return errors.Trace(table.Render())
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		os.Exit(1)
	}
}
