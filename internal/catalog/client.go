package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"recipes-lab/internal/config"
	"recipes-lab/internal/recipe"
)

// Status classifies the outcome of a catalog call. Raw payloads never leave
// this package; callers only see a tagged result.
type Status int

const (
	// StatusOK means the call completed with at least one usable recipe.
	StatusOK Status = iota
	// StatusTransportError covers failed requests, timeouts, non-success
	// HTTP responses and undecodable bodies.
	StatusTransportError
	// StatusQuotaExceeded is the in-body rate-limit/billing sentinel
	// ({code: 402} or {status: "failure"}).
	StatusQuotaExceeded
	// StatusEmpty means the call succeeded but returned zero recipes.
	StatusEmpty
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusTransportError:
		return "transport error"
	case StatusQuotaExceeded:
		return "quota exceeded"
	case StatusEmpty:
		return "empty result"
	default:
		return "unknown"
	}
}

// SearchResult is the classified outcome of a catalog search.
type SearchResult struct {
	Status  Status
	Recipes []recipe.Recipe
}

// DetailResult is the classified outcome of a detail fetch. Detail is nil
// unless Status is StatusOK.
type DetailResult struct {
	Status Status
	Detail *recipe.Detail
}

// Client is an interface for the external recipe catalog service.
type Client interface {
	Search(ctx context.Context) SearchResult
	Detail(ctx context.Context, id int64) DetailResult
}

// spoonacularClient is the concrete implementation of the catalog client.
type spoonacularClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a new catalog client. The HTTP timeout manufactures the
// transport-failure bucket for hung calls.
func NewClient(cfg config.Config) Client {
	timeout := time.Duration(cfg.Catalog.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &spoonacularClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.Catalog.BaseURL,
		apiKey:     cfg.Catalog.APIKey,
	}
}

// searchResponse is the top-level structure of a catalog search response.
// Code/Status double as the in-body failure sentinel on quota exhaustion.
type searchResponse struct {
	Results []rawRecipe `json:"results"`
	Code    int         `json:"code"`
	Status  string      `json:"status"`
}

type rawRecipe struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Image          string   `json:"image"`
	ReadyInMinutes int      `json:"readyInMinutes"`
	Servings       int      `json:"servings"`
	Summary        string   `json:"summary"`
	Tags           []string `json:"tags"`
	Cuisines       []string `json:"cuisines"`
	DishTypes      []string `json:"dishTypes"`
	Diets          []string `json:"diets"`
}

const maxTags = 4

func (r rawRecipe) toRecipe() recipe.Recipe {
	tags := r.Tags
	if len(tags) == 0 {
		for _, group := range [][]string{r.Cuisines, r.DishTypes, r.Diets} {
			tags = append(tags, group...)
		}
	}
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	return recipe.Recipe{
		ID:             r.ID,
		Title:          r.Title,
		Image:          r.Image,
		Tags:           tags,
		ReadyInMinutes: r.ReadyInMinutes,
		Servings:       r.Servings,
		Summary:        r.Summary,
	}
}

// searchParams returns the fixed filtering criteria for every search. The
// free-text filter is applied client-side over the current pool, not here.
func (c *spoonacularClient) searchParams() url.Values {
	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("number", "100")
	params.Set("maxReadyTime", "40")
	params.Set("minHealthScore", "75")
	params.Set("maxPrice", "500")
	params.Set("includeNutrition", "true")
	params.Set("addRecipeInformation", "true")
	params.Set("fillIngredients", "true")
	params.Set("instructionsRequired", "true")
	params.Set("sort", "random")
	return params
}

// Search executes a fresh catalog search and classifies the outcome. No
// caching happens across calls.
func (c *spoonacularClient) Search(ctx context.Context) SearchResult {
	endpoint := fmt.Sprintf("%s/recipes/complexSearch?%s", c.baseURL, c.searchParams().Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("catalog: failed to build search request: %v", err)
		return SearchResult{Status: StatusTransportError}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("catalog: search request failed: %v", err)
		return SearchResult{Status: StatusTransportError}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("catalog: search returned status %d", resp.StatusCode)
		if resp.StatusCode == http.StatusPaymentRequired {
			return SearchResult{Status: StatusQuotaExceeded}
		}
		return SearchResult{Status: StatusTransportError}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("catalog: failed to decode search response: %v", err)
		return SearchResult{Status: StatusTransportError}
	}

	if body.Code == http.StatusPaymentRequired || body.Status == "failure" {
		log.Printf("catalog: quota exceeded sentinel in search response")
		return SearchResult{Status: StatusQuotaExceeded}
	}

	if len(body.Results) == 0 {
		return SearchResult{Status: StatusEmpty}
	}

	recipes := make([]recipe.Recipe, 0, len(body.Results))
	for _, raw := range body.Results {
		recipes = append(recipes, raw.toRecipe())
	}
	return SearchResult{Status: StatusOK, Recipes: recipes}
}

type rawDetail struct {
	rawRecipe
	ExtendedIngredients []struct {
		Original string `json:"original"`
	} `json:"extendedIngredients"`
	AnalyzedInstructions []struct {
		Name  string `json:"name"`
		Steps []struct {
			Number int    `json:"number"`
			Step   string `json:"step"`
		} `json:"steps"`
	} `json:"analyzedInstructions"`
	Nutrition struct {
		Nutrients []struct {
			Name   string  `json:"name"`
			Amount float64 `json:"amount"`
			Unit   string  `json:"unit"`
		} `json:"nutrients"`
	} `json:"nutrition"`
}

func (d rawDetail) toDetail() *recipe.Detail {
	detail := &recipe.Detail{Recipe: d.toRecipe()}
	for _, ing := range d.ExtendedIngredients {
		detail.Ingredients = append(detail.Ingredients, ing.Original)
	}
	for _, set := range d.AnalyzedInstructions {
		steps := make([]recipe.Step, 0, len(set.Steps))
		for _, s := range set.Steps {
			steps = append(steps, recipe.Step{Number: s.Number, Text: s.Step})
		}
		detail.Instructions = append(detail.Instructions, recipe.InstructionSet{Name: set.Name, Steps: steps})
	}
	for _, n := range d.Nutrition.Nutrients {
		detail.Nutrients = append(detail.Nutrients, recipe.Nutrient{Name: n.Name, Amount: n.Amount, Unit: n.Unit})
	}
	return detail
}

// Detail fetches the full record for one recipe. Every failure class resolves
// to a non-OK status rather than an error; the caller falls back to the
// summary it already holds.
func (c *spoonacularClient) Detail(ctx context.Context, id int64) DetailResult {
	endpoint := fmt.Sprintf("%s/recipes/%d/information?apiKey=%s&includeNutrition=true", c.baseURL, id, url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		log.Printf("catalog: failed to build detail request: %v", err)
		return DetailResult{Status: StatusTransportError}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("catalog: detail request failed: %v", err)
		return DetailResult{Status: StatusTransportError}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("catalog: detail returned status %d for recipe %d", resp.StatusCode, id)
		if resp.StatusCode == http.StatusPaymentRequired {
			return DetailResult{Status: StatusQuotaExceeded}
		}
		return DetailResult{Status: StatusTransportError}
	}

	var body struct {
		rawDetail
		Code   int    `json:"code"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		log.Printf("catalog: failed to decode detail response: %v", err)
		return DetailResult{Status: StatusTransportError}
	}

	if body.Code == http.StatusPaymentRequired || body.Status == "failure" {
		log.Printf("catalog: quota exceeded sentinel in detail response for recipe %d", id)
		return DetailResult{Status: StatusQuotaExceeded}
	}

	return DetailResult{Status: StatusOK, Detail: body.toDetail()}
}
