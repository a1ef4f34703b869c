package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"GoRAGService/app/service"
	"GoRAGService/app/utils/restclient"
)

var (
	baseURL   string
	filePath  string
	docID     string
	queryText string
)

var rootCmd = &cobra.Command{
	Use:           "ragcli",
	Short:         "Command-line client for the RAG knowledge service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload a JSON file of documents",
	Long:  `Reads a JSON file of the shape [{"content": "..."}, ...] and submits every content string for ingestion.`,
	RunE:  runUpload,
}

var getCmd = &cobra.Command{
	Use:   "get",
	Short: "List all documents, or fetch one by id",
	RunE:  runGet,
}

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Ask a question against the knowledge base",
	RunE:  runQuery,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "http://localhost:8000", "base URL of the service")

	uploadCmd.Flags().StringVar(&filePath, "file-path", "", "path of the document file to upload")
	uploadCmd.MarkFlagRequired("file-path")

	getCmd.Flags().StringVar(&docID, "doc-id", "", "document id to fetch")

	queryCmd.Flags().StringVar(&queryText, "query", "", "query string for the chat")
	queryCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(uploadCmd, getCmd, queryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}

func client() *restclient.RestClient {
	return restclient.NewRestClient(baseURL, nil)
}

func runUpload(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", filePath, err)
	}

	var documents []struct {
		Content string `json:"content"`
	}
	if err = json.Unmarshal(data, &documents); err != nil {
		return fmt.Errorf("parse %s: %w", filePath, err)
	}

	contents := make([]string, len(documents))
	for i, doc := range documents {
		contents[i] = doc.Content
	}

	body, status, err := client().Post(cmd.Context(), "/knowledge", map[string]any{"contents": contents}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return serverError("upload documents", status, body)
	}

	color.Green("Documents uploaded successfully.")
	return nil
}

func runGet(cmd *cobra.Command, _ []string) error {
	if docID != "" {
		return getDocument(cmd.Context(), docID)
	}
	return getDocuments(cmd.Context())
}

func getDocuments(ctx context.Context) error {
	body, status, err := client().Get(ctx, "/knowledge", nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return serverError("get documents", status, body)
	}

	var documents []service.Document
	if err = json.Unmarshal(body, &documents); err != nil {
		return err
	}

	color.Green("%d documents retrieved successfully:", len(documents))
	for _, doc := range documents {
		fmt.Printf("%s: %s\n", doc.ID, doc.Content)
	}
	return nil
}

func getDocument(ctx context.Context, id string) error {
	body, status, err := client().Get(ctx, "/knowledge/"+id, nil)
	if err != nil {
		return err
	}
	if status == http.StatusNotFound {
		color.Yellow("Document not found.")
		return nil
	}
	if status != http.StatusOK {
		return serverError("get document", status, body)
	}

	var doc service.Document
	if err = json.Unmarshal(body, &doc); err != nil {
		return err
	}
	fmt.Printf("%s: %s\n", doc.ID, doc.Content)
	return nil
}

func runQuery(cmd *cobra.Command, _ []string) error {
	body, status, err := client().Post(cmd.Context(), "/query", map[string]string{"query": queryText}, nil)
	if err != nil {
		return err
	}
	if status != http.StatusOK {
		return serverError("get chat response", status, body)
	}

	var answer service.Answer
	if err = json.Unmarshal(body, &answer); err != nil {
		return err
	}
	fmt.Printf("Chatbot response: %s\n", answer.Answer)
	return nil
}

func serverError(action string, status int, body []byte) error {
	var detail struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &detail); err == nil && detail.Error != "" {
		return fmt.Errorf("failed to %s: status %d: %s", action, status, detail.Error)
	}
	return fmt.Errorf("failed to %s: status %d", action, status)
}
