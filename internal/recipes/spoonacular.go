package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/windoze95/recipe-agent/internal/models"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// SpoonacularEndpoint is the complex search endpoint of the Spoonacular API.
const SpoonacularEndpoint = "https://api.spoonacular.com/recipes/complexSearch"

// APIError is returned when the provider answers with a non-200 status.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("error fetching recipes: %d %s", e.StatusCode, e.Message)
}

// SpoonacularSource implements Source using Spoonacular's complex search.
type SpoonacularSource struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewSpoonacularSource creates a Spoonacular-backed Source. An empty
// endpoint selects SpoonacularEndpoint.
func NewSpoonacularSource(apiKey, endpoint string, timeout time.Duration) *SpoonacularSource {
	if endpoint == "" {
		endpoint = SpoonacularEndpoint
	}
	return &SpoonacularSource{
		apiKey:   apiKey,
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
}

type complexSearchResponse struct {
	Results []searchResult `json:"results"`
}

type searchResult struct {
	Title                string                `json:"title"`
	Likes                int                   `json:"likes"`
	Image                string                `json:"image"`
	MissedIngredients    []searchIngredient    `json:"missedIngredients"`
	UsedIngredients      []searchIngredient    `json:"usedIngredients"`
	AnalyzedInstructions []analyzedInstruction `json:"analyzedInstructions"`
}

type searchIngredient struct {
	Original string `json:"original"`
	Image    string `json:"image"`
}

type analyzedInstruction struct {
	Name  string            `json:"name"`
	Steps []instructionStep `json:"steps"`
}

type instructionStep struct {
	Number int    `json:"number"`
	Step   string `json:"step"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// BuildQuery maps search parameters onto the complex search query string.
// List filters are comma-joined; an empty list becomes an empty value.
func (s *SpoonacularSource) BuildQuery(params SearchParams) url.Values {
	q := url.Values{}
	q.Set("query", params.Query)
	q.Set("cuisine", strings.Join(params.IncludeCuisines, ","))
	q.Set("excludeCuisine", strings.Join(params.ExcludeCuisines, ","))
	q.Set("includeIngredients", strings.Join(params.IncludeIngredients, ","))
	q.Set("excludeIngredients", strings.Join(params.ExcludeIngredients, ","))
	q.Set("number", strconv.Itoa(params.maxAmount()))
	q.Set("apiKey", s.apiKey)
	q.Set("instructionsRequired", "true")
	q.Set("addRecipeInformation", "true")
	q.Set("addRecipeNutrition", "false")
	q.Set("fillIngredients", "true")
	q.Set("ignorePantry", "true")
	q.Set("sort", "calories")
	q.Set("sortDirection", "desc")
	return q
}

// FetchRecipes queries Spoonacular and normalizes the results.
func (s *SpoonacularSource) FetchRecipes(ctx context.Context, params SearchParams) ([]models.Recipe, error) {
	reqURL := fmt.Sprintf("%s?%s", s.endpoint, s.BuildQuery(params).Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create spoonacular request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("spoonacular request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read spoonacular response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, newAPIError(resp.StatusCode, body)
	}

	var sResp complexSearchResponse
	if err := json.Unmarshal(body, &sResp); err != nil {
		return nil, fmt.Errorf("failed to parse spoonacular response: %w", err)
	}

	recipes := make([]models.Recipe, 0, len(sResp.Results))
	for _, r := range sResp.Results {
		recipes = append(recipes, toRecipe(r))
	}
	return recipes, nil
}

func newAPIError(status int, body []byte) *APIError {
	var eResp errorResponse
	if err := json.Unmarshal(body, &eResp); err != nil || eResp.Message == "" {
		eResp.Message = "Unknown error"
	}
	return &APIError{StatusCode: status, Message: eResp.Message}
}

// toRecipe builds a Recipe from one search result. Missed ingredients come
// before used ones and duplicates between the two are kept. Only the first
// analyzed instruction group is used.
func toRecipe(r searchResult) models.Recipe {
	ingredients := make([]models.Ingredient, 0, len(r.MissedIngredients)+len(r.UsedIngredients))
	for _, group := range [][]searchIngredient{r.MissedIngredients, r.UsedIngredients} {
		for _, ing := range group {
			ingredients = append(ingredients, models.Ingredient{
				Title: ing.Original,
				Image: ing.Image,
			})
		}
	}

	instructions := []models.Instruction{}
	if len(r.AnalyzedInstructions) > 0 {
		steps := r.AnalyzedInstructions[0].Steps
		instructions = make([]models.Instruction, 0, len(steps))
		for _, st := range steps {
			instructions = append(instructions, models.Instruction{Step: st.Step})
		}
	}

	return models.Recipe{
		Title:        r.Title,
		Likes:        r.Likes,
		Image:        r.Image,
		Ingredients:  ingredients,
		Instructions: instructions,
	}
}
