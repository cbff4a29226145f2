package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"

	"samplecomponent/greeting"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"
)

var ErrFunctionNameUnavailable = errors.New("function name unavailable in invocation context")

type Handler struct {
	logger *logrus.Logger
}

// Response is what the invoking host receives. It carries only the status code and the serialised body.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

type responseBody struct {
	Message      string `json:"message"`
	FunctionName string `json:"function_name"`
}

func New(logger *logrus.Logger) Handler {
	return Handler{logger: logger}
}

// HandleRequest greets the caller. The event is accepted so any invocation payload
// is valid, but nothing in it is read.
func (h Handler) HandleRequest(ctx context.Context, _ json.RawMessage) (Response, error) {
	message := greeting.HelloWorld()
	h.log().Info(message)

	functionName, err := functionNameFrom(ctx)
	if err != nil {
		return Response{}, fmt.Errorf("handling request: %w", err)
	}

	body, err := json.Marshal(responseBody{Message: message, FunctionName: functionName})
	if err != nil {
		return Response{}, fmt.Errorf("marshalling response body: %w", err)
	}

	return Response{StatusCode: http.StatusOK, Body: string(body)}, nil
}

func (h Handler) log() *logrus.Logger {
	if h.logger != nil {
		return h.logger
	}
	return stdoutLogger
}

var stdoutLogger = &logrus.Logger{
	Out:       os.Stdout,
	Formatter: new(logrus.TextFormatter),
	Hooks:     make(logrus.LevelHooks),
	Level:     logrus.InfoLevel,
}

// functionNameFrom reads the function identity the runtime publishes for this invocation.
func functionNameFrom(ctx context.Context) (string, error) {
	// the runtime always sets AWS_LAMBDA_FUNCTION_NAME, so empty means we are not running under it
	if lambdacontext.FunctionName == "" {
		if lc, ok := lambdacontext.FromContext(ctx); ok {
			return "", fmt.Errorf("%w: request %s", ErrFunctionNameUnavailable, lc.AwsRequestID)
		}
		return "", ErrFunctionNameUnavailable
	}
	return lambdacontext.FunctionName, nil
}
