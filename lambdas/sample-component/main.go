package main

import (
	"os"

	"samplecomponent/handler"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)
	logger.SetFormatter(&logrus.JSONFormatter{})

	lambda.Start(handler.New(logger).HandleRequest)
}
