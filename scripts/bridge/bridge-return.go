//go:build ignore

// Bridge return script - requests a return through the API and sends the
// wrapped tokens to the issued deposit address
package main

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/big"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	bridgeeth "github.com/chainsafe/cascoin-bridge/pkg/ethereum"
)

const erc20ABI = `[{"constant":false,"inputs":[{"name":"to","type":"address"},{"name":"amount","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"},{"constant":true,"inputs":[{"name":"account","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"type":"function"},{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"type":"function"}]`

type returnResponse struct {
	Return struct {
		ID             string `json:"id"`
		DepositAddress string `json:"deposit_address"`
		Status         string `json:"status"`
	} `json:"return"`
	Quote struct {
		NetAmount string `json:"net_amount"`
		TotalFees string `json:"total_fees"`
	} `json:"quote"`
}

func main() {
	apiURL := flag.String("api", "http://localhost:8080/api/v1", "Bridge API base URL")
	destination := flag.String("to", "", "Cascoin address receiving the coins")
	amountFlag := flag.String("amount", "10", "Amount of wrapped tokens to return")
	feeModel := flag.String("fee-model", "deducted", "Fee model: deducted or direct_payment")
	flag.Parse()

	rpcURL := os.Getenv("ETHEREUM_RPC_URL")
	if rpcURL == "" {
		log.Fatal("ETHEREUM_RPC_URL environment variable not set")
	}
	tokenAddr := os.Getenv("TOKEN_CONTRACT")
	if !common.IsHexAddress(tokenAddr) {
		log.Fatal("TOKEN_CONTRACT environment variable must be an EVM address")
	}
	privateKeyHex := os.Getenv("USER_PRIVATE_KEY")
	if privateKeyHex == "" {
		log.Fatal("USER_PRIVATE_KEY environment variable not set")
	}
	if *destination == "" {
		log.Fatal("-to is required")
	}
	amount, err := decimal.NewFromString(*amountFlag)
	if err != nil {
		log.Fatalf("Invalid amount: %v", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		log.Fatalf("Failed to parse private key: %v", err)
	}
	fromAddress := crypto.PubkeyToAddress(*privateKey.Public().(*ecdsa.PublicKey))
	token := common.HexToAddress(tokenAddr)

	ctx := context.Background()
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		log.Fatalf("Failed to connect to EVM node: %v", err)
	}
	defer client.Close()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		log.Fatalf("Failed to get chain ID: %v", err)
	}

	tokenABI, err := abi.JSON(strings.NewReader(erc20ABI))
	if err != nil {
		log.Fatalf("Failed to parse token ABI: %v", err)
	}

	decimals := readDecimals(ctx, client, tokenABI, token)
	balance := readBalance(ctx, client, tokenABI, token, fromAddress)

	fmt.Println("=== Cascoin Bridge Return ===")
	fmt.Printf("Chain ID:    %d\n", chainID)
	fmt.Printf("From:        %s\n", fromAddress.Hex())
	fmt.Printf("Balance:     %s\n", bridgeeth.FromBaseUnits(balance, int32(decimals)).String())
	fmt.Printf("Amount:      %s\n", amount.String())
	fmt.Printf("Destination: %s\n\n", *destination)

	baseAmount := bridgeeth.ToBaseUnits(amount, int32(decimals))
	if balance.Cmp(baseAmount) < 0 {
		log.Fatal("Insufficient wrapped token balance")
	}

	fmt.Println("=== Step 1: Requesting return ===")
	ret := createReturn(*apiURL, fromAddress.Hex(), *destination, amount, *feeModel)
	fmt.Printf("Return ID:       %s\n", ret.Return.ID)
	fmt.Printf("Deposit address: %s\n", ret.Return.DepositAddress)
	fmt.Printf("Net to receive:  %s (fees %s)\n\n", ret.Quote.NetAmount, ret.Quote.TotalFees)

	fmt.Println("=== Step 2: Sending wrapped tokens ===")
	data, err := tokenABI.Pack("transfer", common.HexToAddress(ret.Return.DepositAddress), baseAmount)
	if err != nil {
		log.Fatalf("Failed to pack transfer: %v", err)
	}

	nonce, err := client.PendingNonceAt(ctx, fromAddress)
	if err != nil {
		log.Fatalf("Failed to get nonce: %v", err)
	}
	gasPrice, err := client.SuggestGasPrice(ctx)
	if err != nil {
		log.Fatalf("Failed to get gas price: %v", err)
	}

	tx := types.NewTransaction(nonce, token, big.NewInt(0), uint64(100000), gasPrice, data)
	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(chainID), privateKey)
	if err != nil {
		log.Fatalf("Failed to sign transfer tx: %v", err)
	}
	if err := client.SendTransaction(ctx, signedTx); err != nil {
		log.Fatalf("Failed to send transfer tx: %v", err)
	}

	fmt.Printf("Transfer tx sent: %s\n", signedTx.Hash().Hex())
	fmt.Println("Waiting for confirmation...")

	receipt, err := waitForReceipt(client, signedTx.Hash())
	if err != nil {
		log.Fatalf("Failed to get transfer receipt: %v", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		log.Fatal("Transfer transaction failed")
	}

	fmt.Println("\nTransfer confirmed")
	fmt.Printf("Block: %d\n", receipt.BlockNumber.Uint64())
	fmt.Printf("Gas used: %d\n", receipt.GasUsed)
	fmt.Printf("\nTrack progress at %s/returns/%s\n", *apiURL, ret.Return.ID)
}

func createReturn(apiURL, source, destination string, amount decimal.Decimal, feeModel string) *returnResponse {
	body, err := json.Marshal(map[string]any{
		"source_address":      source,
		"destination_address": destination,
		"amount":              amount,
		"fee_model":           feeModel,
	})
	if err != nil {
		log.Fatalf("Failed to encode request: %v", err)
	}

	resp, err := http.Post(apiURL+"/returns", "application/json", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to call bridge API: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		log.Fatalf("Bridge API rejected the return (%d): %s", resp.StatusCode, apiErr.Error)
	}

	var out returnResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Fatalf("Failed to decode response: %v", err)
	}
	return &out
}

func readDecimals(ctx context.Context, client *ethclient.Client, tokenABI abi.ABI, token common.Address) uint8 {
	data, err := tokenABI.Pack("decimals")
	if err != nil {
		log.Fatalf("Failed to pack decimals: %v", err)
	}
	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		log.Fatalf("Failed to call decimals: %v", err)
	}
	return uint8(new(big.Int).SetBytes(result).Uint64())
}

func readBalance(ctx context.Context, client *ethclient.Client, tokenABI abi.ABI, token, account common.Address) *big.Int {
	data, err := tokenABI.Pack("balanceOf", account)
	if err != nil {
		log.Fatalf("Failed to pack balanceOf: %v", err)
	}
	result, err := client.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		log.Fatalf("Failed to call balanceOf: %v", err)
	}
	return new(big.Int).SetBytes(result)
}

func waitForReceipt(client *ethclient.Client, txHash common.Hash) (*types.Receipt, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	for {
		receipt, err := client.TransactionReceipt(ctx, txHash)
		if err == nil {
			return receipt, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(3 * time.Second):
			fmt.Print(".")
		}
	}
}
