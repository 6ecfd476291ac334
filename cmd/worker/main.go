package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"reelforge/assets"
	"reelforge/common"
	"reelforge/config"
	"reelforge/dedup"
	"reelforge/feeds"
	"reelforge/imagesearch"
	"reelforge/kafka"
	"reelforge/pipeline"
	"reelforge/render"
	"reelforge/script"
	"reelforge/scriptgen"
	"reelforge/state"
	"reelforge/tts"
	"reelforge/upload"
)

func main() {
	feedInput := flag.String("feed", "", "one-shot mode: fetch this feed (preset or URL), generate a script from the newest article and render it")
	flag.Parse()

	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := buildPipeline(ctx)
	if err != nil {
		log.Fatalf("failed to build pipeline: %v", err)
	}

	if *feedInput != "" {
		if err := runFromFeed(ctx, p, *feedInput); err != nil {
			log.Fatalf("feed run failed: %v", err)
		}
		return
	}

	topic := os.Getenv("RENDER_TOPIC")
	if topic == "" {
		topic = "render-requests"
	}
	groupID := os.Getenv("RENDER_GROUP")
	if groupID == "" {
		groupID = "reelforge-workers"
	}
	brokers := os.Getenv("KAFKA_BROKERS")
	if brokers == "" {
		brokers = "localhost:9092"
	}

	handler := &kafka.TypedMessageHandler[pipeline.RenderRequest]{
		Validate: func(msg *pipeline.RenderRequest) bool {
			return msg.JobID != "" && msg.Script != nil
		},
		Process: func(ctx context.Context, msg *pipeline.RenderRequest) error {
			_, err := p.RunJob(ctx, msg.JobID, msg.Script)
			return err
		},
		// Malformed requests can never succeed; skip them instead of retrying.
		AlwaysMark: true,
	}

	consumer, err := kafka.NewConsumer(kafka.ConsumerConfig{
		Brokers: strings.Split(brokers, ","),
		Topic:   topic,
		GroupID: groupID,
		Handler: handler,
	})
	if err != nil {
		log.Fatalf("failed to create kafka consumer: %v", err)
	}
	defer consumer.Close()

	if err := consumer.Start(ctx); err != nil {
		log.Fatalf("failed to start consumer: %v", err)
	}
	log.Println("Worker running; waiting for render requests")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	log.Println("Shutting down worker")
	cancel()
}

func buildPipeline(ctx context.Context) (*pipeline.Pipeline, error) {
	synth, err := tts.NewHTTPProviderFromEnv()
	if err != nil {
		return nil, err
	}

	searcher, err := imagesearch.NewSerperClientFromEnv()
	if err != nil {
		return nil, err
	}
	cache, err := assets.NewImageCache(config.ImageCacheDir)
	if err != nil {
		return nil, err
	}
	resolver := assets.NewResolver(cache, searcher)

	renderer, err := render.NewRenderer(config.OutputDir)
	if err != nil {
		return nil, err
	}

	var store state.Store
	if redisStore, err := state.NewRedisStoreFromEnv(); err != nil {
		log.Printf("Warning: redis unavailable (%v); using in-memory job store", err)
		store = state.NewMemoryStore()
	} else {
		store = redisStore
	}

	p := &pipeline.Pipeline{
		Synthesizer: synth,
		Resolver:    resolver,
		Renderer:    renderer,
		Store:       store,
		Variant:     script.VariantStandard,
	}

	// S3 archival is optional; nil client means keep artifacts local.
	s3Client, err := common.NewS3FromEnv(ctx)
	if err != nil {
		log.Printf("Warning: failed to init S3 client: %v (archival disabled)", err)
	} else if s3Client != nil {
		p.Storage = s3Client
	}

	if serviceAccount := os.Getenv("YOUTUBE_SERVICE_ACCOUNT"); serviceAccount != "" {
		uploader, err := upload.NewUploader(ctx, serviceAccount)
		if err != nil {
			return nil, err
		}
		p.Uploader = uploader
	}

	return p, nil
}

// runFromFeed is the one-shot ingestion path: fetch the feed, extract the
// newest article's body, generate a script and render it.
func runFromFeed(ctx context.Context, p *pipeline.Pipeline, feedInput string) error {
	generator, err := scriptgen.NewGeneratorFromEnv()
	if err != nil {
		return err
	}

	var seen *dedup.SeenFilter
	if filter, err := dedup.NewSeenFilterFromEnv(); err != nil {
		log.Printf("Warning: seen-filter unavailable (%v); duplicates may render", err)
	} else {
		seen = filter
		defer seen.Close()
	}

	feedURL := feeds.ResolveFeedURL(feedInput)
	log.Printf("Fetching feed: %s", feedURL)
	articles, err := feeds.FetchFeed(ctx, feedURL, 5)
	if err != nil {
		return err
	}
	if len(articles) == 0 {
		log.Println("Feed has no articles")
		return nil
	}

	log.Printf("Extracting content for %d articles", len(articles))
	feeds.ExtractAllContent(articles)

	for _, article := range articles {
		if article.ExtractionError != "" {
			continue
		}
		if seen != nil {
			if dup, err := seen.Seen(article); err == nil && dup {
				log.Printf("Skipping already-rendered article: %s", article.Title)
				continue
			}
		}

		s, err := generator.Generate(ctx, article, article.SuggestContentType())
		if err != nil {
			log.Printf("Script generation failed for %q: %v", article.Title, err)
			continue
		}

		result, err := p.Run(ctx, s)
		if err != nil {
			return err
		}
		if seen != nil {
			if err := seen.Mark(article); err != nil {
				log.Printf("Warning: failed to mark article as seen: %v", err)
			}
		}
		log.Printf("Rendered %s", result.VideoPath)
		return nil
	}
	return nil
}
