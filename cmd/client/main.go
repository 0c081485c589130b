package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"gitlab.com/dirk.krummacker/businesscard-service/internal/model"
)

const apiPath = "/api/BusinessCards/"

var baseURL string

// Usage example on the command line:
// > go run main.go -url=http://localhost:8080
func main() {
	urlPtr := flag.String("url", "http://localhost:8080", "the base URL of the service")
	flag.Parse()
	baseURL = *urlPtr + apiPath

	fmt.Println()
	fmt.Println("  Elements      POST       PUT       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{1000, 5000, 10000, 50000, 100000}
	card := model.BusinessCard{
		Name:        "Marcus Antonius",
		Gender:      "Male",
		Phone:       "+39 999 777 555",
		DateOfBirth: model.NewDate(1983, time.January, 14),
		Address:     model.Optional("Via Appia 1, Roma"),
	}
	for _, loops := range sizes {
		firstID, _ := sendPostRequest(card)
		fmt.Printf("%10d", loops)
		{
			// POST requests
			var duration int64
			for i := 0; i < loops; i++ {
				_, d := sendPostRequest(card)
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		{
			// PUT requests
			f := func(id int64) int64 {
				update := card
				update.Id = id
				return sendIDRequest(id, http.MethodPut, "UpdateBusinessCard", bytes.NewReader(mustMarshal(update)))
			}
			callInLoop(firstID, loops, f)
		}
		{
			// GET requests
			f := func(id int64) int64 {
				return sendIDRequest(id, http.MethodGet, "GetBusinessCard", nil)
			}
			callInLoop(firstID, loops, f)
		}
		{
			// DELETE requests
			f := func(id int64) int64 {
				return sendIDRequest(id, http.MethodDelete, "DeleteBusinessCard", nil)
			}
			callInLoop(firstID, loops, f)
		}
		sendIDRequest(firstID, http.MethodDelete, "DeleteBusinessCard", nil)
		fmt.Println()
	}
}

func callInLoop(firstID int64, loops int, f func(id int64) int64) {
	ids := createRandomSliceWithIDs(firstID+1, loops)
	var duration int64
	for _, id := range ids {
		d := f(id)
		duration += d
	}
	fmt.Printf("%10d", duration/int64(loops*1000))
}

func createRandomSliceWithIDs(firstID int64, loops int) []int64 {
	ids := make([]int64, 0, loops)
	for i := 0; i < loops; i++ {
		ids = append(ids, firstID+int64(i))
	}
	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})
	return ids
}

func mustMarshal(card model.BusinessCard) []byte {
	body, err := json.Marshal(card)
	if err != nil {
		fmt.Println("could not marshal JSON", err)
		panic(err)
	}
	return body
}

func sendPostRequest(card model.BusinessCard) (int64, int64) {
	resBody, duration := sendRequest(http.MethodPost, baseURL+"AddBusinessCard", bytes.NewReader(mustMarshal(card)))
	var created model.BusinessCard
	err := json.Unmarshal(resBody, &created)
	if err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	return created.Id, duration
}

func sendIDRequest(id int64, method string, endpoint string, bodyReader io.Reader) int64 {
	requestURL := fmt.Sprintf("%s%s?id=%d", baseURL, endpoint, id)
	_, duration := sendRequest(method, requestURL, bodyReader)
	return duration
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return resBody, after - before
}
