// Command nertag is the training and serving entrypoint, grounded on
// entrypoint/main.go's config-load-retry-then-serve shape.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"

	"github.com/anglisano/nametag/api"
	"github.com/anglisano/nametag/classifier"
	"github.com/anglisano/nametag/logger"
	"github.com/anglisano/nametag/ner"
	"github.com/anglisano/nametag/resources"
	"github.com/anglisano/nametag/trainconfig"
	"github.com/anglisano/nametag/worker"
)

// Config is the process-level configuration, selected between train and
// serve mode by the -train flag.
type Config struct {
	TrainConfigPath string `envconfig:"NER_TRAIN_CONFIG_PATH" default:""`
	ModelPath       string `envconfig:"NER_MODEL_PATH" required:"true"`
	ClassifierPath  string `envconfig:"NER_CLASSIFIER_PATH" default:""`
	RestAPIActive   bool   `envconfig:"NER_REST_API_ACTIVE" default:"false"`
	RestAPIPort     string `envconfig:"NER_REST_API_PORT" default:"10000"`
}

const modelLoadMaxRetries = 5

func main() {
	logger.SetupLogging()
	mainLogger := logger.New("main")
	fatalLogger := mainLogger.Fatal().Caller()

	train := flag.Bool("train", false, "build a model from a training descriptor and exit")
	flag.Parse()

	var config Config
	if err := envconfig.Process("", &config); err != nil {
		fatalLogger.Err(err).Msg("failed to read environment")
		os.Exit(1)
	}

	if *train {
		runTrain(mainLogger, fatalLogger, config)
		return
	}
	runServe(mainLogger, fatalLogger, config)
}

func runTrain(mainLogger zerolog.Logger, fatalLogger *zerolog.Event, config Config) {
	descriptor, err := trainconfig.Load(config.TrainConfigPath)
	if err != nil {
		fatalLogger.Err(err).Msg("failed to load training descriptor")
		os.Exit(1)
	}

	specs, err := materializeS3Resources(mainLogger, descriptor.Processors)
	if err != nil {
		fatalLogger.Err(err).Msg("failed to fetch S3 training resources")
		os.Exit(1)
	}

	model := ner.NewModel()
	for _, name := range descriptor.Entities {
		model.Entities.Parse(name, true)
	}
	for _, spec := range specs {
		resolved := descriptor.ResolveLine(spec)
		if err := model.AddProcessor(resolved); err != nil {
			fatalLogger.Err(err).Str("spec", resolved).Msg("failed to build feature processor")
			os.Exit(1)
		}
	}

	if err := os.WriteFile(descriptor.ModelPath, model.Save(), 0o644); err != nil {
		fatalLogger.Err(err).Str("path", descriptor.ModelPath).Msg("failed to write model file")
		os.Exit(1)
	}
	mainLogger.Info().Str("path", descriptor.ModelPath).Int("features", int(model.TotalFeatures)).Msg("model written")
}

// materializeS3Resources downloads every s3:// file argument named in
// specs through a resources.Client, stores each download on the local
// disk under a name derived from its content fingerprint, and rewrites
// those specs to point at that local path. Every run downloads every
// s3:// argument again; an unchanged object only skips rewriting its
// local copy. Specs with no S3 arguments, and specs
// for processors that take no file arguments at all, pass through
// unchanged; no AWS credentials are required unless an s3:// path
// actually appears.
func materializeS3Resources(mainLogger zerolog.Logger, specs []string) ([]string, error) {
	var client *resources.Client
	out := make([]string, len(specs))
	cacheDir := filepath.Join(os.TempDir(), "nertag-resources")

	for i, spec := range specs {
		fields := strings.Fields(spec)
		replacements := map[int]string{}
		for _, idx := range trainconfig.PathArgIndices(spec) {
			if !strings.HasPrefix(fields[idx], "s3://") {
				continue
			}
			if client == nil {
				var err error
				client, err = resources.New()
				if err != nil {
					return nil, fmt.Errorf("materializeS3Resources: %w", err)
				}
			}
			local, err := fetchCached(client, cacheDir, fields[idx])
			if err != nil {
				return nil, err
			}
			mainLogger.Info().Str("uri", fields[idx]).Str("cached_as", local).Msg("fetched S3 training resource")
			replacements[idx] = local
		}
		out[i] = trainconfig.RewriteFields(spec, replacements)
	}
	if client != nil {
		client.Close()
	}
	return out, nil
}

// fetchCached downloads uri through client and returns the local path
// named by the downloaded bytes' fingerprint. If a file with that name
// already exists it is reused as is; the download itself is never
// skipped.
func fetchCached(client *resources.Client, cacheDir, uri string) (string, error) {
	data, err := resources.Fetch(client, uri)
	if err != nil {
		return "", fmt.Errorf("fetchCached: downloading %q: %w", uri, err)
	}
	fingerprint := resources.Fingerprint(data)
	local := filepath.Join(cacheDir, fingerprint+"-"+filepath.Base(uri))
	if _, err := os.Stat(local); err == nil {
		return local, nil
	}
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return "", fmt.Errorf("fetchCached: creating cache dir: %w", err)
	}
	if err := os.WriteFile(local, data, 0o644); err != nil {
		return "", fmt.Errorf("fetchCached: writing cached file: %w", err)
	}
	return local, nil
}

func runServe(mainLogger zerolog.Logger, fatalLogger *zerolog.Event, config Config) {
	var resourceClient *resources.Client
	if strings.HasPrefix(config.ModelPath, "s3://") {
		var err error
		resourceClient, err = resources.New()
		if err != nil {
			fatalLogger.Err(err).Msg("failed to create resources client for S3 model path")
			os.Exit(1)
		}
	}

	modelChannel := make(chan *ner.Model)
	go func() {
		for retry := 0; retry < modelLoadMaxRetries; retry++ {
			buf, err := resources.Fetch(resourceClient, config.ModelPath)
			if err != nil {
				mainLogger.Err(err).Msg("failed to read model file, retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			model := ner.NewModel()
			if err := model.Load(buf); err != nil {
				mainLogger.Err(err).Msg("failed to load model, retrying in 5 sec")
				time.Sleep(5 * time.Second)
				continue
			}
			mainLogger.Info().Int("features", int(model.TotalFeatures)).Msg("model loaded")
			modelChannel <- model
			return
		}
		fatalLogger.Msg("could not load model after retries, exiting")
		os.Exit(1)
	}()

	model := <-modelChannel

	var clf classifier.Classifier
	if config.ClassifierPath != "" {
		linear, err := classifier.LoadLinear(config.ClassifierPath)
		if err != nil {
			fatalLogger.Err(err).Msg("failed to load classifier")
			os.Exit(1)
		}
		clf = linear
	} else {
		clf = classifier.Zero{}
	}
	dec := classifier.NewLabelScheme(map[byte]classifier.LabelEntry{}, model.Entities)

	if config.RestAPIActive {
		go func() {
			mainLogger.Info().Msg("starting REST API")
			handler := &api.TagHandler{Model: model, Classifier: clf, Decoder: dec}
			http.HandleFunc("/tag", handler.Tag)
			host := fmt.Sprintf(":%s", config.RestAPIPort)
			mainLogger.Info().Str("host", host).Msg("REST API listening")
			err := http.ListenAndServe(host, nil)
			fatalLogger.Err(err).Msg("REST API stopped with error")
		}()
	}

	mainLogger.Info().Msg("starting tagging worker")
	for {
		w, err := worker.New(model, clf, dec)
		if err != nil {
			fatalLogger.Err(err).Msg("could not initialize worker")
			os.Exit(1)
		}
		if err := w.StartWorker(); err != nil {
			mainLogger.Err(err).Msg("worker returned with error, restarting in 5 seconds")
			time.Sleep(5 * time.Second)
		}
	}
}
