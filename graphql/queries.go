package graphql

// Query documents sent to the backend. Every paginated field follows
// the same convention: pageInfo { hasNextPage endCursor } plus a
// nodes list.

const queryChainIdentifier = `
query ChainIdentifier {
  chainIdentifier
}`

const queryCheckpoint = `
query GetCheckpoint($id: CheckpointId) {
  checkpoint(id: $id) {
    ...CheckpointFields
  }
}` + fragmentCheckpoint

const queryCheckpoints = `
query GetCheckpoints($first: Int, $after: String, $last: Int, $before: String) {
  checkpoints(first: $first, after: $after, last: $last, before: $before) {
    pageInfo { hasNextPage endCursor }
    nodes {
      ...CheckpointFields
    }
  }
}` + fragmentCheckpoint

const fragmentCheckpoint = `
fragment CheckpointFields on Checkpoint {
  digest
  sequenceNumber
  timestamp
  previousCheckpointDigest
  networkTotalTransactions
  validatorSignatures
  epoch { epochId }
  rollingGasSummary {
    computationCost
    storageCost
    storageRebate
    nonRefundableStorageFee
  }
  transactionBlocks {
    nodes { digest }
  }
  endOfEpochTx: transactionBlocks(last: 1, filter: { kind: SYSTEM_TX }) {
    nodes {
      kind {
        __typename
        ... on EndOfEpochTransaction {
          transactions(last: 1) {
            nodes {
              __typename
              ... on ChangeEpochTransaction {
                protocolVersion
                epoch {
                  validatorSet {
                    activeValidators {
                      nodes {
                        credentials { protocolPubKey }
                        votingPower
                      }
                    }
                  }
                }
              }
            }
          }
        }
      }
    }
  }
}`

const queryBalance = `
query GetBalance($owner: CoralAddress!, $type: String) {
  address(address: $owner) {
    balance(type: $type) {
      coinType { repr }
      coinObjectCount
      totalBalance
    }
  }
}`

const queryAllBalances = `
query GetAllBalances($owner: CoralAddress!, $first: Int, $after: String) {
  address(address: $owner) {
    balances(first: $first, after: $after) {
      pageInfo { hasNextPage endCursor }
      nodes {
        coinType { repr }
        coinObjectCount
        totalBalance
      }
    }
  }
}`

const queryCoins = `
query GetCoins($owner: CoralAddress!, $type: String, $first: Int, $after: String) {
  address(address: $owner) {
    coins(type: $type, first: $first, after: $after) {
      pageInfo { hasNextPage endCursor }
      nodes {
        coinBalance
        contents { type { repr } }
        address
        version
        digest
        previousTransactionBlock { digest }
      }
    }
  }
}`

const queryObject = `
query GetObject($id: CoralAddress!) {
  object(address: $id) {
    ...ObjectFields
  }
}` + fragmentObject

const queryObjectsByIDs = `
query MultiGetObjects($ids: [CoralAddress!]!, $first: Int) {
  objects(filter: { objectIds: $ids }, first: $first) {
    nodes {
      ...ObjectFields
    }
  }
}` + fragmentObject

const queryOwnedObjects = `
query GetOwnedObjects($owner: CoralAddress!, $filter: ObjectFilter, $first: Int, $after: String) {
  address(address: $owner) {
    objects(filter: $filter, first: $first, after: $after) {
      pageInfo { hasNextPage endCursor }
      nodes {
        ...ObjectFields
      }
    }
  }
}` + fragmentObject

const queryDynamicFields = `
query GetDynamicFields($parent: CoralAddress!, $first: Int, $after: String) {
  object(address: $parent) {
    dynamicFields(first: $first, after: $after) {
      pageInfo { hasNextPage endCursor }
      nodes {
        name { type { repr } json bcs }
        value {
          __typename
          ... on MoveObject {
            address
            version
            digest
            contents { type { repr } }
          }
          ... on MoveValue {
            type { repr }
          }
        }
      }
    }
  }
}`

const queryDynamicFieldObject = `
query GetDynamicFieldObject($parent: CoralAddress!, $name: DynamicFieldNameInput!) {
  object(address: $parent) {
    dynamicObjectField(name: $name) {
      ...ObjectFields
    }
  }
}` + fragmentObject

const fragmentObject = `
fragment ObjectFields on Object {
  address
  version
  digest
  storageRebate
  previousTransactionBlock { digest }
  owner {
    __typename
    ... on AddressOwner { owner { address } }
    ... on Parent { parent { address } }
    ... on Shared { initialSharedVersion }
  }
  contents {
    type { repr }
    json
  }
}`

const queryTransactionBlock = `
query GetTransactionBlock($digest: String!) {
  transactionBlock(digest: $digest) {
    ...TransactionBlockFields
  }
}` + fragmentTransactionBlock

const queryTransactionBlocksByDigests = `
query MultiGetTransactionBlocks($digests: [String!]!, $first: Int) {
  transactionBlocks(filter: { transactionIds: $digests }, first: $first) {
    nodes {
      ...TransactionBlockFields
    }
  }
}` + fragmentTransactionBlock

const queryTransactionBlocks = `
query QueryTransactionBlocks($filter: TransactionBlockFilter, $first: Int, $after: String, $last: Int, $before: String) {
  transactionBlocks(filter: $filter, first: $first, after: $after, last: $last, before: $before) {
    pageInfo { hasNextPage endCursor }
    nodes {
      ...TransactionBlockFields
    }
  }
}` + fragmentTransactionBlock

const fragmentTransactionBlock = `
fragment TransactionBlockFields on TransactionBlock {
  digest
  bcs
  effects {
    status
    errors
    timestamp
    epoch { epochId }
    checkpoint { sequenceNumber }
    gasEffects {
      gasSummary {
        computationCost
        storageCost
        storageRebate
        nonRefundableStorageFee
      }
    }
    balanceChanges {
      nodes {
        owner { address }
        coinType { repr }
        amount
      }
    }
    events {
      nodes {
        sendingModule { package { address } name }
        sender { address }
        type { repr }
        timestamp
        contents { json bcs }
        transactionBlock { digest }
      }
    }
  }
}`

const queryEvents = `
query QueryEvents($filter: EventFilter!, $first: Int, $after: String, $last: Int, $before: String) {
  events(filter: $filter, first: $first, after: $after, last: $last, before: $before) {
    pageInfo { hasNextPage endCursor }
    nodes {
      sendingModule { package { address } name }
      sender { address }
      type { repr }
      timestamp
      contents { json bcs }
      transactionBlock { digest }
    }
  }
}`

const queryEpochSummary = `
query EpochSummary {
  epoch {
    epochId
    referenceGasPrice
    protocolConfigs {
      protocolVersion
    }
  }
  checkpoint {
    sequenceNumber
    networkTotalTransactions
  }
}`
