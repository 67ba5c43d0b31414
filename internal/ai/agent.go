package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"stationery-admin/internal/database"
	"stationery-admin/internal/models"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// RunAgent answers an admin's question about the store, calling back into
// the inventory and report layers as tools.
func RunAgent(userMessage string, apiKey string) (string, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", err
	}
	defer client.Close()

	model := client.GenerativeModel("gemini-2.0-flash-001")

	today := time.Now().Format("2006-01-02")

	systemPrompt := fmt.Sprintf(`SYSTEM: Today is %s. You are the assistant for a college stationery store admin.

	RULES:
	1. UPDATE: If the admin asks to update a product by NAME (e.g. "Update the A4 Notebook price"), do NOT ask for the ID. Instead:
	   - Call 'check_inventory' to find the ID.
	   - Call 'update_product_price' using that ID.

	2. READ: If the admin asks for the PRICE, STOCK or DETAILS of a product:
	   - Call 'check_inventory' to get the full list.
	   - Read the JSON to find the specific item and answer.

	3. RESTOCK: If the admin asks what is running out or needs reordering, use 'check_low_stock'.

	4. SALES: If the admin asks about revenue or how many transactions happened, use 'get_issue_report'.

	USER: %s`, today, userMessage)

	model.Tools = []*genai.Tool{
		{
			FunctionDeclarations: []*genai.FunctionDeclaration{
				{
					Name:        "check_inventory",
					Description: "Get the full product catalog. Use this to find ANY product details like ID, Name, Price, Stock or which course it is mapped to.",
				},
				{
					Name:        "check_low_stock",
					Description: "List products at or below their low stock threshold.",
				},
				{
					Name:        "update_product_price",
					Description: "Update the price of a specific product using its ID",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"product_id": {Type: genai.TypeInteger, Description: "ID of the product"},
							"new_price":  {Type: genai.TypeNumber, Description: "New price"},
						},
						Required: []string{"product_id", "new_price"},
					},
				},
				{
					Name:        "get_issue_report",
					Description: "Get total revenue and transaction count for a date range.",
					Parameters: &genai.Schema{
						Type: genai.TypeObject,
						Properties: map[string]*genai.Schema{
							"start_date": {Type: genai.TypeString, Description: "Start date (YYYY-MM-DD)"},
							"end_date":   {Type: genai.TypeString, Description: "End date (YYYY-MM-DD)"},
						},
						Required: []string{"start_date", "end_date"},
					},
				},
			},
		},
	}

	session := model.StartChat()

	resp, err := session.SendMessage(ctx, genai.Text(systemPrompt))
	if err != nil {
		return "", err
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {

			if funcCall.Name == "check_inventory" {
				return executeCheckInventory(ctx, session)
			}

			if funcCall.Name == "check_low_stock" {
				return executeCheckLowStock(ctx, session), nil
			}

			if funcCall.Name == "update_product_price" {
				return executeUpdatePrice(ctx, session, funcCall), nil
			}

			if funcCall.Name == "get_issue_report" {
				return executeIssueReport(ctx, session, funcCall), nil
			}
		}
	}

	return printResponse(resp), nil
}

// --- TOOL IMPLEMENTATIONS ---

func executeCheckInventory(ctx context.Context, session *genai.ChatSession) (string, error) {
	var products []models.Product
	database.DB.Find(&products)

	type SimpleProduct struct {
		ID        uint    `json:"id"`
		Name      string  `json:"name"`
		Stock     int     `json:"stock"`
		Price     float64 `json:"price"`
		ForCourse string  `json:"for_course"`
		IsSet     bool    `json:"is_set"`
	}
	var simpleList []SimpleProduct
	for _, p := range products {
		simpleList = append(simpleList, SimpleProduct{
			ID:        p.ID,
			Name:      p.Name,
			Stock:     p.Stock,
			Price:     p.Price,
			ForCourse: p.ForCourse,
			IsSet:     p.IsSet,
		})
	}

	jsonBytes, _ := json.Marshal(simpleList)

	toolResp := genai.FunctionResponse{
		Name:     "check_inventory",
		Response: map[string]interface{}{"inventory": string(jsonBytes)},
	}

	finalResp, err := session.SendMessage(ctx, toolResp)
	if err != nil {
		return "", err
	}

	// The model may chain straight into an update after reading inventory
	return handleRecursiveToolCalls(ctx, session, finalResp), nil
}

func executeCheckLowStock(ctx context.Context, session *genai.ChatSession) string {
	products, err := database.GetLowStockProducts()
	if err != nil {
		return "Error reading low stock list."
	}

	type LowItem struct {
		ID        uint   `json:"id"`
		Name      string `json:"name"`
		Stock     int    `json:"stock"`
		Threshold int    `json:"threshold"`
	}
	var lowList []LowItem
	for _, p := range products {
		lowList = append(lowList, LowItem{ID: p.ID, Name: p.Name, Stock: p.Stock, Threshold: p.LowStockThreshold})
	}

	jsonBytes, _ := json.Marshal(lowList)

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "check_low_stock",
		Response: map[string]interface{}{"low_stock": string(jsonBytes)},
	})
	return printResponse(finalResp)
}

func handleRecursiveToolCalls(ctx context.Context, session *genai.ChatSession, resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if funcCall, ok := part.(genai.FunctionCall); ok {
			if funcCall.Name == "update_product_price" {
				return executeUpdatePrice(ctx, session, funcCall)
			}
		}
	}
	return printResponse(resp)
}

func executeUpdatePrice(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	productID := int(args["product_id"].(float64))
	newPrice := args["new_price"].(float64)

	result := database.DB.Model(&models.Product{}).Where("id = ?", productID).Update("price", newPrice)

	msg := "Success"
	if result.RowsAffected == 0 {
		msg = "Product ID not found"
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name:     "update_product_price",
		Response: map[string]interface{}{"status": msg, "new_price": newPrice},
	})
	return printResponse(finalResp)
}

func executeIssueReport(ctx context.Context, session *genai.ChatSession, funcCall genai.FunctionCall) string {
	args := funcCall.Args
	startStr := args["start_date"].(string)
	endStr := args["end_date"].(string)

	start, err1 := time.Parse("2006-01-02", startStr)
	end, err2 := time.Parse("2006-01-02", endStr)

	if err1 != nil || err2 != nil {
		return "Error: Dates must be in YYYY-MM-DD format."
	}
	end = end.Add(23*time.Hour + 59*time.Minute)

	report, err := database.GetIssueReport(start, end)
	if err != nil {
		return "Error calculating the report."
	}

	finalResp, _ := session.SendMessage(ctx, genai.FunctionResponse{
		Name: "get_issue_report",
		Response: map[string]interface{}{
			"revenue":           report.TotalRevenue,
			"transaction_count": report.TotalCount,
		},
	})
	return printResponse(finalResp)
}

func printResponse(resp *genai.GenerateContentResponse) string {
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			return string(txt)
		}
	}
	return "I completed the action."
}
