package gql

// Schema is the GraphQL SDL served at /graphql. User has no password
// field: hashes never leave the server.
const Schema = `
schema {
  query: Query
  mutation: Mutation
}

type Book {
  title: String!
  published: Int!
  author: Author!
  genres: [String!]
  id: ID!
}

type Author {
  name: String!
  born: Int
  id: ID!
  bookCount: Int!
}

type User {
  username: String!
  favoriteGenre: String!
  id: ID!
}

type Token {
  value: String!
}

type Query {
  bookCount: Int!
  authorCount: Int!
  allBooks(author: String, genre: String): [Book!]!
  allAuthors: [Author!]!
  allUsers: [User!]!
  me: User
}

type Mutation {
  addBook(
    title: String!
    author: String!
    published: Int!
    genres: [String!]!
  ): Book
  editAuthor(
    name: String!
    setBornTo: Int!
  ): Author
  addUser(
    username: String!
    password: String!
    favoriteGenre: String!
  ): User
  login(
    username: String!
    password: String!
  ): Token
}
`
