package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/cloudwego/eino-ext/components/model/openai"

	"github.com/tbxark/formflow"
	"github.com/tbxark/formflow/recognize"
)

type Survey struct {
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Transport  string `json:"transport"`
	Newsletter bool   `json:"newsletter"`
	Feedback   string `json:"feedback"`
}

func main() {
	conf := flag.String("config", "", "optional path to an OpenAI config file for LLM recognition")
	flag.Parse()
	if err := run(context.Background(), *conf); err != nil {
		log.Fatalf("survey: %v", err)
	}
}

func run(ctx context.Context, confPath string) error {
	slog.SetLogLoggerLevel(slog.LevelInfo)

	feedbackRecognizer, err := buildFeedbackRecognizer(ctx, confPath)
	if err != nil {
		return err
	}
	transport, err := recognize.NewTerms(
		recognize.TermSet{Value: "bike", Terms: []string{"bike", "bicycle"}},
		recognize.TermSet{Value: "car", Terms: []string{"car", "driving"}},
		recognize.TermSet{Value: "transit", Terms: []string{"transit", "bus", "train"}},
	)
	if err != nil {
		return err
	}

	form, err := formflow.NewFormBuilder[Survey](nil).
		Message("Welcome to the commuter survey!").
		Field("/name").
		Field("/age", formflow.WithRecognizer[Survey](recognize.Number{Integer: true})).
		Field("/transport", formflow.WithRecognizer[Survey](transport)).
		Field("/newsletter", formflow.WithDescription[Survey]("newsletter subscription")).
		Field("/feedback", formflow.WithRecognizer[Survey](feedbackRecognizer)).
		Confirm("").
		OnCompletion(func(ctx context.Context, final Survey) error {
			fmt.Printf("\nThanks! Recorded: %+v\n", final)
			return nil
		}).
		Build()
	if err != nil {
		return err
	}

	dialog := formflow.NewFormDialog(form, formflow.WithPromptInStart())
	state := formflow.NewFormState(form.Len(), "en")

	var values Survey
	turn, err := dialog.Start(ctx, values, state, nil)
	if err != nil {
		return err
	}
	fmt.Println(turn.Output)
	values = turn.State

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		turn, err = dialog.MessageReceived(ctx, values, state, scanner.Text())
		if err != nil {
			return err
		}
		values = turn.State
		if turn.Done {
			if turn.Output != "" {
				fmt.Println(turn.Output)
			}
			return nil
		}
		if turn.Cancelled {
			fmt.Println("Survey cancelled.")
			return nil
		}
		fmt.Println(turn.Output)
	}
	return scanner.Err()
}

// buildFeedbackRecognizer uses an LLM extraction recognizer when a model is
// configured, and plain text capture otherwise.
func buildFeedbackRecognizer(ctx context.Context, confPath string) (recognize.Recognizer, error) {
	if confPath == "" {
		return recognize.String{}, nil
	}
	conf, err := loadConfig(confPath)
	if err != nil {
		return nil, err
	}
	chatModel, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		APIKey:  conf.APIKey,
		Model:   conf.Model,
		BaseURL: conf.BaseURL,
	})
	if err != nil {
		return nil, err
	}
	return recognize.NewTool(chatModel, "feedback", "free-form feedback about the user's commute")
}
